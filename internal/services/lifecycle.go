package services

import (
	"fmt"
	"math/rand"
	"slices"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/gamenight-api/internal/domain/assignment"
	"github.com/gravadigital/gamenight-api/internal/domain/catalog"
	"github.com/gravadigital/gamenight-api/internal/domain/event"
	"github.com/gravadigital/gamenight-api/internal/logger"
)

// Store is the persistence surface the lifecycle controller writes
// through. The postgres package implements it; tests use in-memory fakes.
// Every controller operation validates its preconditions before touching
// any entity, so a failed call leaves observable state unchanged.
type Store interface {
	SaveEvent(ev *event.Event) error
	SaveGame(g *event.EventGame) error
	SaveRound(r *event.Round) error
	DeleteGame(g *event.EventGame) error
	DeleteEventRounds(eventID uuid.UUID) error
	Transaction(fn func(Store) error) error
}

// TemplateRepository resolves catalog templates referenced by games
type TemplateRepository interface {
	GetByID(id uuid.UUID) (*catalog.GameTemplate, error)
}

// LifecycleController drives the Event, EventGame and Round state
// machines and delegates partitioning to the assignment engine. It
// assumes a single mutator session; concurrent calls on the same event
// must be serialized by the caller.
type LifecycleController struct {
	store     Store
	templates TemplateRepository
	persons   assignment.PersonRepository
	engine    *assignment.Engine
	log       *log.Logger
	rng       *rand.Rand
}

// ControllerOption configures a LifecycleController
type ControllerOption func(*LifecycleController)

// WithPickRandSource injects the randomness used by next-game selection
func WithPickRandSource(src rand.Source) ControllerOption {
	return func(c *LifecycleController) {
		c.rng = rand.New(src)
	}
}

// NewLifecycleController wires the controller's collaborators together
func NewLifecycleController(store Store, templates TemplateRepository, persons assignment.PersonRepository, engine *assignment.Engine, opts ...ControllerOption) *LifecycleController {
	c := &LifecycleController{
		store:     store,
		templates: templates,
		persons:   persons,
		engine:    engine,
		log:       logger.Lifecycle(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartEvent activates an event and starts its first game. An event with
// nothing left to play completes immediately.
func (c *LifecycleController) StartEvent(ev *event.Event) error {
	if !ev.HasParticipants() {
		return &NoParticipantsError{EventID: ev.ID}
	}

	if err := ev.UpdateStatus(event.StatusActive); err != nil {
		return err
	}

	next, err := c.PickNextGameRandom(ev)
	if err != nil {
		return err
	}
	if next == nil {
		ev.Status = event.StatusCompleted
		if err := c.store.SaveEvent(ev); err != nil {
			return fmt.Errorf("failed to save event: %w", err)
		}
		c.log.Info("event started with no games scheduled, marked completed", "event", ev.ID)
		return nil
	}

	c.log.Info("event started", "event", ev.ID, "first_game", next.ID)
	return c.StartGame(ev, next)
}

// PauseEvent pauses an active event
func (c *LifecycleController) PauseEvent(ev *event.Event) error {
	if err := ev.UpdateStatus(event.StatusPaused); err != nil {
		return err
	}
	if err := c.store.SaveEvent(ev); err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	c.log.Info("event paused", "event", ev.ID)
	return nil
}

// ResumeEvent resumes a paused event. If its current game is gone or
// already completed a fresh one is picked and started; when nothing is
// left to play the event completes.
func (c *LifecycleController) ResumeEvent(ev *event.Event) error {
	if !ev.HasParticipants() {
		return &NoParticipantsError{EventID: ev.ID}
	}

	current := ev.CurrentGame()
	if current != nil && current.Status == event.GameStatusInProgress {
		if err := ev.UpdateStatus(event.StatusActive); err != nil {
			return err
		}
		if err := c.store.SaveEvent(ev); err != nil {
			return fmt.Errorf("failed to save event: %w", err)
		}
		c.log.Info("event resumed in place", "event", ev.ID, "game", current.ID)
		return nil
	}

	next, err := c.PickNextGameRandom(ev)
	if err != nil {
		return err
	}
	if next == nil {
		if err := ev.UpdateStatus(event.StatusCompleted); err != nil {
			return err
		}
		ev.CurrentGameID = nil
		if err := c.store.SaveEvent(ev); err != nil {
			return fmt.Errorf("failed to save event: %w", err)
		}
		c.log.Info("no games left to play, event completed", "event", ev.ID)
		return nil
	}

	c.log.Info("event resumed with new game", "event", ev.ID, "game", next.ID)
	return c.StartGame(ev, next)
}

// StartGame makes the given game the event's current game and creates
// Round 0 if the game has no rounds yet. Calling it again on a game that
// already has rounds never creates a second Round 0.
func (c *LifecycleController) StartGame(ev *event.Event, g *event.EventGame) error {
	if !ev.HasParticipants() {
		return &NoParticipantsError{EventID: ev.ID}
	}
	if _, err := c.templates.GetByID(g.TemplateID); err != nil {
		return &MissingTemplateError{GameID: g.ID, TemplateID: g.TemplateID}
	}
	if g.Status == event.GameStatusCompleted {
		return fmt.Errorf("game %s is already completed", g.ID)
	}

	if ev.Status != event.StatusActive {
		if err := ev.UpdateStatus(event.StatusActive); err != nil {
			return err
		}
	}
	ev.CurrentGameID = &g.ID

	if g.Status == event.GameStatusNotStarted {
		if err := g.UpdateStatus(event.GameStatusInProgress); err != nil {
			return err
		}
	}

	var created *event.Round
	if len(g.Rounds) == 0 {
		r := event.NewRound(g.ID, 0)
		g.Rounds = append(g.Rounds, *r)
		created = &g.Rounds[len(g.Rounds)-1]
	}

	err := c.store.Transaction(func(tx Store) error {
		if err := tx.SaveEvent(ev); err != nil {
			return err
		}
		if err := tx.SaveGame(g); err != nil {
			return err
		}
		if created != nil {
			if err := tx.SaveRound(created); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	c.log.Info("game started", "event", ev.ID, "game", g.ID, "round_created", created != nil)
	return nil
}

// CreateNextRound appends a round after the highest existing round
// number, without generating teams
func (c *LifecycleController) CreateNextRound(g *event.EventGame) (*event.Round, error) {
	tpl, err := c.templates.GetByID(g.TemplateID)
	if err != nil {
		return nil, &MissingTemplateError{GameID: g.ID, TemplateID: g.TemplateID}
	}

	next := g.NextRoundNumber()
	if next >= tpl.RoundsPerGame {
		return nil, &InvalidRoundCountError{GameID: g.ID, Max: tpl.RoundsPerGame}
	}

	r := event.NewRound(g.ID, next)
	g.Rounds = append(g.Rounds, *r)
	created := &g.Rounds[len(g.Rounds)-1]

	if err := c.store.SaveRound(created); err != nil {
		g.Rounds = g.Rounds[:len(g.Rounds)-1]
		return nil, fmt.Errorf("failed to save round: %w", err)
	}

	c.log.Info("round created", "game", g.ID, "number", next)
	return created, nil
}

// CompleteGame marks the game completed and clears the event's current
// pointer iff it referenced this game
func (c *LifecycleController) CompleteGame(ev *event.Event, g *event.EventGame) error {
	if err := g.UpdateStatus(event.GameStatusCompleted); err != nil {
		return err
	}
	if ev.CurrentGameID != nil && *ev.CurrentGameID == g.ID {
		ev.CurrentGameID = nil
	}

	err := c.store.Transaction(func(tx Store) error {
		if err := tx.SaveGame(g); err != nil {
			return err
		}
		return tx.SaveEvent(ev)
	})
	if err != nil {
		return fmt.Errorf("failed to complete game: %w", err)
	}

	c.log.Info("game completed", "event", ev.ID, "game", g.ID)
	return nil
}

// PickNextGameRandom chooses uniformly among not-started games,
// preferring one whose catalog group differs from the most recently
// completed game's group. It returns nil when nothing is left to play
// and never mutates the event.
func (c *LifecycleController) PickNextGameRandom(ev *event.Event) (*event.EventGame, error) {
	candidates := ev.NotStartedGames()
	if len(candidates) == 0 {
		return nil, nil
	}

	lastGroup := ""
	if last := ev.MostRecentlyCompletedGame(); last != nil {
		if tpl, err := c.templates.GetByID(last.TemplateID); err == nil {
			lastGroup = tpl.GroupName
		}
	}

	pool := candidates
	if lastGroup != "" {
		var differing []*event.EventGame
		for _, g := range candidates {
			tpl, err := c.templates.GetByID(g.TemplateID)
			if err != nil {
				continue
			}
			if tpl.GroupName != lastGroup {
				differing = append(differing, g)
			}
		}
		if len(differing) > 0 {
			pool = differing
		}
	}

	return pool[c.rng.Intn(len(pool))], nil
}

// PushGameToLater moves a not-yet-played game to the back of the schedule
func (c *LifecycleController) PushGameToLater(ev *event.Event, g *event.EventGame) error {
	if g.Status != event.GameStatusNotStarted {
		return fmt.Errorf("game %s has already been played", g.ID)
	}

	ordered := make([]*event.EventGame, 0, len(ev.Games))
	for i := range ev.Games {
		if ev.Games[i].ID != g.ID {
			ordered = append(ordered, &ev.Games[i])
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})
	ordered = append(ordered, g)

	for pos, game := range ordered {
		game.Position = pos
	}

	err := c.store.Transaction(func(tx Store) error {
		for _, game := range ordered {
			if err := tx.SaveGame(game); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reorder games: %w", err)
	}

	c.log.Info("game pushed to later", "event", ev.ID, "game", g.ID)
	return nil
}

// RemoveGameFromEvent deletes a not-yet-played game, clearing the current
// pointer if it referenced the game
func (c *LifecycleController) RemoveGameFromEvent(ev *event.Event, g *event.EventGame) error {
	if g.Status != event.GameStatusNotStarted {
		return fmt.Errorf("game %s has already been played", g.ID)
	}

	if ev.CurrentGameID != nil && *ev.CurrentGameID == g.ID {
		ev.CurrentGameID = nil
	}
	ev.Games = slices.DeleteFunc(ev.Games, func(other event.EventGame) bool {
		return other.ID == g.ID
	})

	err := c.store.Transaction(func(tx Store) error {
		if err := tx.DeleteGame(g); err != nil {
			return err
		}
		return tx.SaveEvent(ev)
	})
	if err != nil {
		return fmt.Errorf("failed to remove game: %w", err)
	}

	c.log.Info("game removed from event", "event", ev.ID, "game", g.ID)
	return nil
}

// FinalizeRound locks the round with its outcome. A winner yields a win
// result with derived placements; no winner records a tie without
// placements.
func (c *LifecycleController) FinalizeRound(r *event.Round, winner, second, third *uuid.UUID) error {
	if r.Locked() {
		return &LockedRoundError{RoundID: r.ID}
	}

	if winner == nil {
		now := time.Now()
		r.CompletedAt = &now
		r.Result = event.ResultTie
		r.WinningTeamID = nil
	} else {
		winning := r.Team(*winner)
		if winning == nil {
			return fmt.Errorf("round %s has no team %s", r.ID, *winner)
		}

		placements := make(event.Placements)
		for _, id := range winning.MemberIDs {
			placements[id] = 1
		}
		if second != nil {
			if team := r.Team(*second); team != nil {
				for _, id := range team.MemberIDs {
					placements[id] = 2
				}
			}
		}
		if third != nil {
			if team := r.Team(*third); team != nil {
				for _, id := range team.MemberIDs {
					placements[id] = 3
				}
			}
		}

		now := time.Now()
		r.CompletedAt = &now
		r.Result = event.ResultWin
		r.WinningTeamID = winner
		r.Placements = placements
	}

	if err := c.store.SaveRound(r); err != nil {
		return fmt.Errorf("failed to save round: %w", err)
	}

	c.log.Info("round finalized", "round", r.ID, "result", r.Result)
	return nil
}

// ResetEvent deletes every round of every game, resets the games and the
// event, and leaves participants and templates alone
func (c *LifecycleController) ResetEvent(ev *event.Event) error {
	err := c.store.Transaction(func(tx Store) error {
		if err := tx.DeleteEventRounds(ev.ID); err != nil {
			return err
		}
		for i := range ev.Games {
			ev.Games[i].Reset()
			if err := tx.SaveGame(&ev.Games[i]); err != nil {
				return err
			}
		}
		ev.Reset()
		return tx.SaveEvent(ev)
	})
	if err != nil {
		return fmt.Errorf("failed to reset event: %w", err)
	}

	c.log.Info("event reset", "event", ev.ID)
	return nil
}

// SwapPlayer replaces outgoing with incoming in whichever team holds
// outgoing. Nothing happens when outgoing is not assigned.
func (c *LifecycleController) SwapPlayer(r *event.Round, outgoing, incoming uuid.UUID) error {
	if r.Locked() {
		return &LockedRoundError{RoundID: r.ID}
	}
	if r.TeamOf(incoming) != nil {
		return fmt.Errorf("person %s is already assigned in round %s", incoming, r.ID)
	}

	team := r.TeamOf(outgoing)
	if team == nil {
		return nil
	}

	for i, id := range team.MemberIDs {
		if id == outgoing {
			team.MemberIDs[i] = incoming
			break
		}
	}

	if err := c.store.SaveRound(r); err != nil {
		return fmt.Errorf("failed to save round: %w", err)
	}

	c.log.Info("player swapped", "round", r.ID, "out", outgoing, "in", incoming)
	return nil
}

// GenerateTeams computes and commits a partition for the round
func (c *LifecycleController) GenerateTeams(ev *event.Event, g *event.EventGame, r *event.Round) error {
	return c.GenerateTeamsWithPreferredPlayers(ev, g, r, nil)
}

// GenerateTeamsWithPreferredPlayers computes and commits a partition,
// preferring the given players where still eligible
func (c *LifecycleController) GenerateTeamsWithPreferredPlayers(ev *event.Event, g *event.EventGame, r *event.Round, preferred []uuid.UUID) error {
	if r.Locked() {
		return &LockedRoundError{RoundID: r.ID}
	}

	tpl, err := c.templates.GetByID(g.TemplateID)
	if err != nil {
		return &MissingTemplateError{GameID: g.ID, TemplateID: g.TemplateID}
	}

	teams, err := c.engine.GenerateWithPreferred(ev, g, r, tpl, preferred)
	if err != nil {
		return err
	}

	r.Teams = teams
	if err := c.store.SaveRound(r); err != nil {
		return fmt.Errorf("failed to save round: %w", err)
	}

	c.log.Info("teams generated", "round", r.ID, "teams", len(teams))
	return nil
}

// SetParticipants replaces the event's ordered participant pool
func (c *LifecycleController) SetParticipants(ev *event.Event, ids []uuid.UUID) error {
	people, err := c.persons.GetByIDs(ids)
	if err != nil {
		return fmt.Errorf("failed to resolve participants: %w", err)
	}
	if len(people) != len(ids) {
		return fmt.Errorf("participant list references unknown people: want %d, found %d", len(ids), len(people))
	}

	ev.SetParticipantUUIDs(ids)
	if err := c.store.SaveEvent(ev); err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}

	c.log.Info("participants set", "event", ev.ID, "count", len(ids))
	return nil
}
