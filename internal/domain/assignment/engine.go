package assignment

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/gamenight-api/internal/domain/catalog"
	"github.com/gravadigital/gamenight-api/internal/domain/event"
	"github.com/gravadigital/gamenight-api/internal/domain/person"
	"github.com/gravadigital/gamenight-api/internal/logger"
)

// DefaultMaxIterations bounds the randomized partition search
const DefaultMaxIterations = 600

// Engine computes fair team partitions for a round. It is a bounded
// randomized heuristic: shuffle, slice, score, keep the best candidate,
// stop early on a perfect score. It never mutates the round or event;
// committing the returned partition is the caller's job.
type Engine struct {
	persons PersonRepository
	log     *log.Logger

	maxIterations int
	rng           *rand.Rand
}

// Option configures an Engine
type Option func(*Engine)

// WithMaxIterations overrides the search iteration budget
func WithMaxIterations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

// WithRandSource injects a randomness source, making search behavior
// reproducible in tests
func WithRandSource(src rand.Source) Option {
	return func(e *Engine) {
		e.rng = rand.New(src)
	}
}

// NewEngine creates an engine reading the roster through the given repository
func NewEngine(persons PersonRepository, opts ...Option) *Engine {
	e := &Engine{
		persons:       persons,
		log:           logger.Engine(),
		maxIterations: DefaultMaxIterations,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate computes a partition for the round using the event's pool
func (e *Engine) Generate(ev *event.Event, game *event.EventGame, round *event.Round, tpl *catalog.GameTemplate) ([]event.RoundTeam, error) {
	return e.GenerateWithPreferred(ev, game, round, tpl, nil)
}

// GenerateWithPreferred computes a partition, preferring the given player
// ids (players carried over from a skipped game) where they are still
// eligible
func (e *Engine) GenerateWithPreferred(ev *event.Event, game *event.EventGame, round *event.Round, tpl *catalog.GameTemplate, preferred []uuid.UUID) ([]event.RoundTeam, error) {
	if game == nil || round.GameID == uuid.Nil || round.GameID != game.ID {
		return nil, &MissingEventGameError{RoundID: round.ID}
	}

	eligible, err := e.eligiblePool(ev)
	if err != nil {
		return nil, err
	}
	counts := completedRoundCounts(ev)

	teamCount := game.ResolveTeamCount(tpl)
	teamSize := game.ResolveTeamSize(tpl)

	if game.ResolveTeamType(tpl) == catalog.TeamTypeCouples {
		return e.generateCouples(eligible, counts, teamCount)
	}

	required := teamCount * teamSize

	var selected []*person.Person
	if len(preferred) > 0 {
		selected, err = reconcilePreferred(eligible, counts, required, preferred)
	} else {
		exclude := make(map[uuid.UUID]struct{})
		for _, id := range round.AssignedMemberIDs() {
			exclude[id] = struct{}{}
		}
		selected, err = selectParticipants(eligible, counts, required, exclude)
	}
	if err != nil {
		return nil, err
	}

	history := game.CompletedSignatures()
	best, score := e.search(selected, teamCount, teamSize, history)

	e.log.Debug("partition search finished",
		"round", round.ID,
		"teams", teamCount,
		"team_size", teamSize,
		"score", score)

	teams := make([]event.RoundTeam, len(best))
	for i, members := range best {
		ids := make([]uuid.UUID, len(members))
		for j, p := range members {
			ids[j] = p.ID
		}
		teams[i] = event.NewRoundTeam(ids)
	}
	return teams, nil
}

// eligiblePool resolves the event's ordered pool to active people,
// preserving pool order
func (e *Engine) eligiblePool(ev *event.Event) ([]*person.Person, error) {
	people, err := e.persons.GetByIDs(ev.ParticipantUUIDs())
	if err != nil {
		return nil, err
	}

	eligible := make([]*person.Person, 0, len(people))
	for _, p := range people {
		if p.Active {
			eligible = append(eligible, p)
		}
	}
	return eligible, nil
}

// generateCouples builds one team per mutual spousal pair, fairness
// order deciding which couples play when more pairs exist than teams
func (e *Engine) generateCouples(eligible []*person.Person, counts map[uuid.UUID]int, teamCount int) ([]event.RoundTeam, error) {
	pairs := pairCouples(eligible, counts)
	if len(pairs) < teamCount {
		return nil, &NotEnoughCouplesError{Required: teamCount, Available: len(pairs)}
	}

	teams := make([]event.RoundTeam, teamCount)
	for i, pair := range pairs[:teamCount] {
		teams[i] = event.NewRoundTeam([]uuid.UUID{pair[0].ID, pair[1].ID})
	}
	return teams, nil
}

// search runs the bounded randomized partition search: shuffle the
// selected people, slice contiguously into teams, score, retain the
// lowest-scoring candidate, exit early at zero
func (e *Engine) search(selected []*person.Person, teamCount, teamSize int, history map[string]struct{}) ([][]*person.Person, float64) {
	candidate := make([]*person.Person, len(selected))
	copy(candidate, selected)

	var best [][]*person.Person
	bestScore := 0.0

	for iter := 0; iter < e.maxIterations; iter++ {
		e.rng.Shuffle(len(candidate), func(i, j int) {
			candidate[i], candidate[j] = candidate[j], candidate[i]
		})

		teams := make([][]*person.Person, teamCount)
		for t := 0; t < teamCount; t++ {
			members := make([]*person.Person, teamSize)
			copy(members, candidate[t*teamSize:(t+1)*teamSize])
			teams[t] = members
		}

		score := scorePartition(teams, history, false)
		if best == nil || score < bestScore {
			best = teams
			bestScore = score
		}
		if bestScore == 0 {
			break
		}
	}

	return best, bestScore
}
