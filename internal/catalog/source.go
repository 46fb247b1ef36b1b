package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kvn3toj/bolt/internal/db"
	"github.com/kvn3toj/bolt/internal/models"
)

// HTTPSource fetches question records from the remote data store's
// REST surface: GET {base}/videos/{id}/questions.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates an HTTP catalog source
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// questionRow mirrors the remote store's loose row shape. Optional
// fields stay pointers so kind defaults can be applied only when the
// record leaves them unset.
type questionRow struct {
	ID                 string   `json:"id"`
	VideoID            string   `json:"video_id"`
	Timestamp          float64  `json:"timestamp"`
	Kind               string   `json:"type"`
	Prompt             string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswer      int      `json:"correct_answer"`
	TimeLimit          *int     `json:"time_limit,omitempty"`
	Points             *int     `json:"points,omitempty"`
	PauseOnInteraction *bool    `json:"pause_on_interaction,omitempty"`
	Feedback           *struct {
		Correct   *string `json:"correct,omitempty"`
		Incorrect *string `json:"incorrect,omitempty"`
	} `json:"feedback,omitempty"`
}

// FetchQuestions retrieves and decodes the question rows for a video
func (s *HTTPSource) FetchQuestions(ctx context.Context, videoID string) ([]*models.Question, error) {
	url := fmt.Sprintf("%s/videos/%s/questions", s.baseURL, videoID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog request returned status %d", resp.StatusCode)
	}

	var rows []questionRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	questions := make([]*models.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, rows[i].toModel())
	}
	return questions, nil
}

// toModel resolves the row's optional fields into a Question
func (r *questionRow) toModel() *models.Question {
	kind := models.QuestionKind(r.Kind)

	q := &models.Question{
		ID:            r.ID,
		VideoID:       r.VideoID,
		Timestamp:     r.Timestamp,
		Kind:          kind,
		Prompt:        r.Prompt,
		Options:       r.Options,
		CorrectAnswer: r.CorrectAnswer,
		// An absent pause flag stays nil so the kind default applies
		// identically no matter which source loaded the record
		PauseOnInteraction: r.PauseOnInteraction,
	}

	if r.TimeLimit != nil {
		q.TimeLimit = *r.TimeLimit
	}
	if r.Points != nil {
		q.Points = *r.Points
	}
	if r.Feedback != nil {
		q.FeedbackCorrect = r.Feedback.Correct
		q.FeedbackIncorrect = r.Feedback.Incorrect
	}
	return q
}

// StoreSource serves question records from the local store
type StoreSource struct {
	questions *db.QuestionRepository
}

// NewStoreSource creates a local-store catalog source
func NewStoreSource(questions *db.QuestionRepository) *StoreSource {
	return &StoreSource{questions: questions}
}

// FetchQuestions retrieves the question rows for a video from the local store
func (s *StoreSource) FetchQuestions(ctx context.Context, videoID string) ([]*models.Question, error) {
	return s.questions.ListByVideo(ctx, videoID)
}
