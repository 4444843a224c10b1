// Package viewstate models the recommendation screen as an explicit finite
// state machine: idle -> analyzing -> complete | error, plus a browse mode
// and a category filter.
package viewstate

import (
	"reelmatch/internal/catalog"
	"reelmatch/internal/models"
	"reelmatch/pkg/recommender"
)

// State is the lifecycle position of a Session.
type State string

const (
	StateIdle      State = "idle"
	StateAnalyzing State = "analyzing"
	StateComplete  State = "complete"
	StateError     State = "error"
)

// Mode selects which cards are shown in the complete state.
type Mode string

const (
	ModeRecommend Mode = "recommend"
	ModeBrowse    Mode = "browse"
)

// SharedQueryLabel is shown in place of a query for shared links.
const SharedQueryLabel = "Shared Recommendation"

// Ticket identifies one Submit. Only the latest ticket may settle the session.
type Ticket uint64

// Card is a renderable pairing of a service and, in recommend mode, the
// recommendation that selected it.
type Card struct {
	Service        models.ServiceRecord       `json:"service"`
	Recommendation *models.RecommendationItem `json:"recommendation,omitempty"`
}

// Session is not safe for concurrent use; each caller owns its own.
type Session struct {
	state    State
	mode     Mode
	category string
	query    string
	result   models.RecommendationResult
	seq      Ticket
}

// NewSession returns an idle session in recommend mode.
func NewSession() *Session {
	return &Session{state: StateIdle, mode: ModeRecommend, category: catalog.AllCategories}
}

func (s *Session) State() State                        { return s.state }
func (s *Session) Mode() Mode                          { return s.mode }
func (s *Session) Category() string                    { return s.category }
func (s *Session) Query() string                       { return s.query }
func (s *Session) Result() models.RecommendationResult { return s.result }

// Submit starts a new analysis. Any earlier in-flight ticket becomes stale.
// The normalized query is returned so it can be echoed into the input.
func (s *Session) Submit(rawQuery string) (Ticket, string) {
	s.seq++
	s.query = recommender.NormalizeQuery(rawQuery)
	s.state = StateAnalyzing
	s.mode = ModeRecommend
	s.category = catalog.AllCategories
	s.result = models.RecommendationResult{}
	return s.seq, s.query
}

// Resolve settles the current analysis. Stale tickets are ignored.
func (s *Session) Resolve(t Ticket, result models.RecommendationResult) bool {
	if t != s.seq || s.state != StateAnalyzing {
		return false
	}
	s.result = result
	s.state = StateComplete
	return true
}

// Fail marks the current analysis as failed. Stale tickets are ignored.
func (s *Session) Fail(t Ticket) bool {
	if t != s.seq || s.state != StateAnalyzing {
		return false
	}
	s.state = StateError
	return true
}

// Browse switches to the full catalog. Pending analyses become stale.
func (s *Session) Browse() {
	s.seq++
	s.state = StateComplete
	s.mode = ModeBrowse
	s.category = catalog.AllCategories
	s.result = models.RecommendationResult{}
}

// LoadShared shows a single shared recommendation. Unknown service ids are
// rejected and leave the session untouched.
func (s *Session) LoadShared(item models.RecommendationItem) bool {
	if !catalog.Exists(item.ServiceID) {
		return false
	}
	s.seq++
	s.state = StateComplete
	s.mode = ModeRecommend
	s.category = catalog.AllCategories
	s.query = SharedQueryLabel
	s.result = models.RecommendationResult{Recommendations: []models.RecommendationItem{item}}
	return true
}

// SelectCategory changes the card filter; "" means all.
func (s *Session) SelectCategory(category string) {
	if category == "" {
		category = catalog.AllCategories
	}
	s.category = category
}

// Reset returns to idle and forgets everything.
func (s *Session) Reset() {
	s.seq++
	*s = Session{state: StateIdle, mode: ModeRecommend, category: catalog.AllCategories, seq: s.seq}
}

// Cards lists what should be rendered for the current mode and filter.
func (s *Session) Cards() []Card {
	var cards []Card
	if s.mode == ModeBrowse {
		cards = BrowseCards()
	} else {
		cards = RecommendationCards(s.result)
	}
	return FilterCards(cards, s.category)
}

// BrowseCards returns one card per catalog service.
func BrowseCards() []Card {
	all := catalog.All()
	cards := make([]Card, 0, len(all))
	for _, svc := range all {
		cards = append(cards, Card{Service: svc})
	}
	return cards
}

// RecommendationCards joins result items to the catalog, dropping items whose
// service id does not exist.
func RecommendationCards(result models.RecommendationResult) []Card {
	cards := make([]Card, 0, len(result.Recommendations))
	for i := range result.Recommendations {
		rec := result.Recommendations[i]
		svc, ok := catalog.Lookup(rec.ServiceID)
		if !ok {
			continue
		}
		cards = append(cards, Card{Service: svc, Recommendation: &rec})
	}
	return cards
}

// FilterCards keeps cards whose service is in category ("All"/"" keeps all).
func FilterCards(cards []Card, category string) []Card {
	if category == "" || category == catalog.AllCategories {
		return cards
	}
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if c.Service.Category == category {
			out = append(out, c)
		}
	}
	return out
}

// StateForJobStatus maps a background job status onto the screen state.
func StateForJobStatus(status string) State {
	switch status {
	case models.JobStatusEnqueued, models.JobStatusRunning:
		return StateAnalyzing
	case models.JobStatusCompleted:
		return StateComplete
	case models.JobStatusFailed:
		return StateError
	default:
		return StateIdle
	}
}
