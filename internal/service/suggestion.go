package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/guard"
	"github.com/courtside/platform/internal/provider"
	"github.com/courtside/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SuggestionService orchestrates court suggestions and edit suggestions:
// submission with duplicate checks and geocoding, and admin review with
// conditional status transitions.
type SuggestionService struct {
	pool        *pgxpool.Pool
	courts      repository.CourtRepository
	suggestions repository.SuggestionRepository
	edits       repository.EditSuggestionRepository
	outbox      repository.OutboxRepository
	geocoder    provider.Geocoder
	courtCache  *guard.TTLCache[uuid.UUID, *domain.Court]
	logger      *slog.Logger
}

// NewSuggestionService creates a SuggestionService.
func NewSuggestionService(
	pool *pgxpool.Pool,
	courts repository.CourtRepository,
	suggestions repository.SuggestionRepository,
	edits repository.EditSuggestionRepository,
	outbox repository.OutboxRepository,
	geocoder provider.Geocoder,
	courtCache *guard.TTLCache[uuid.UUID, *domain.Court],
	logger *slog.Logger,
) *SuggestionService {
	return &SuggestionService{
		pool:        pool,
		courts:      courts,
		suggestions: suggestions,
		edits:       edits,
		outbox:      outbox,
		geocoder:    geocoder,
		courtCache:  courtCache,
		logger:      logger,
	}
}

// SuggestionInput carries the user-submitted attributes of a proposed court.
type SuggestionInput struct {
	Name               string `json:"name"`
	Address            string `json:"address"`
	City               string `json:"city"`
	State              string `json:"state"`
	Zip                string `json:"zip"`
	NumberOfCourts     int    `json:"number_of_courts"`
	Surface            string `json:"surface"`
	Condition          string `json:"condition"`
	CourtType          string `json:"court_type"`
	Lights             bool   `json:"lights"`
	HittingWall        bool   `json:"hitting_wall"`
	MembershipRequired bool   `json:"membership_required"`
	Parking            string `json:"parking"`
}

// CreateSuggestion validates and geocodes a proposed court, rejects
// duplicates against existing courts and pending suggestions, and records
// the suggestion together with its outbox event.
func (s *SuggestionService) CreateSuggestion(ctx context.Context, in SuggestionInput, submitterID uuid.UUID, submitterName string) (*domain.CourtSuggestion, error) {
	if err := domain.ValidateSuggestionFields(in.Name, in.Address, in.City, in.State, in.Zip); err != nil {
		return nil, err
	}
	if in.NumberOfCourts < 1 {
		return nil, domain.ErrValidation("number_of_courts must be at least 1")
	}

	exists, err := s.courts.ExistsAtAddress(ctx, s.pool, in.Address, in.City, in.State, in.Zip)
	if err != nil {
		return nil, domain.ErrInternal("check existing court", err)
	}
	if exists {
		return nil, domain.ErrConflict("a court already exists at this address")
	}

	pending, err := s.suggestions.PendingExistsAtAddress(ctx, s.pool, in.Address, in.City, in.State, in.Zip)
	if err != nil {
		return nil, domain.ErrInternal("check pending suggestions", err)
	}
	if pending {
		return nil, domain.ErrConflict("a suggestion for this address is already pending review")
	}

	coords, err := s.geocoder.Geocode(ctx, in.Address, in.City, in.State, in.Zip)
	if err != nil {
		return nil, domain.ErrInternal("geocode address", err)
	}
	if coords == nil {
		return nil, domain.ErrValidation("address could not be resolved to coordinates")
	}

	suggestion := &domain.CourtSuggestion{
		ID:                 uuid.New(),
		Name:               in.Name,
		Address:            in.Address,
		City:               in.City,
		State:              in.State,
		Zip:                in.Zip,
		Latitude:           coords.Latitude,
		Longitude:          coords.Longitude,
		NumberOfCourts:     in.NumberOfCourts,
		Surface:            in.Surface,
		Condition:          in.Condition,
		CourtType:          in.CourtType,
		Lights:             in.Lights,
		HittingWall:        in.HittingWall,
		MembershipRequired: in.MembershipRequired,
		Parking:            in.Parking,
		SubmitterID:        submitterID,
		SubmitterName:      submitterName,
		Status:             domain.SuggestionPending,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.suggestions.Create(ctx, tx, suggestion); err != nil {
		if errors.Is(err, repository.ErrDuplicatePending) {
			return nil, domain.ErrConflict("a suggestion for this address is already pending review")
		}
		return nil, domain.ErrInternal("create suggestion", err)
	}
	event := domain.NewModerationEvent(domain.AggregateSuggestion, suggestion.ID, domain.EventSuggestionCreated, map[string]string{
		"suggestion_id": suggestion.ID.String(),
		"name":          suggestion.Name,
		"city":          suggestion.City,
		"submitter_id":  submitterID.String(),
	})
	if err := s.outbox.Insert(ctx, tx, event); err != nil {
		return nil, domain.ErrInternal("record suggestion event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("court suggestion created", "suggestion_id", suggestion.ID, "city", suggestion.City, "submitter_id", submitterID)
	return suggestion, nil
}

// ListMySuggestions returns all suggestions a user has submitted.
func (s *SuggestionService) ListMySuggestions(ctx context.Context, submitterID uuid.UUID) ([]domain.CourtSuggestion, error) {
	list, err := s.suggestions.ListBySubmitter(ctx, s.pool, submitterID)
	if err != nil {
		return nil, domain.ErrInternal("list suggestions", err)
	}
	return list, nil
}

// ListSuggestions returns suggestions in the given status, newest first.
func (s *SuggestionService) ListSuggestions(ctx context.Context, status domain.SuggestionStatus, limit int) ([]domain.CourtSuggestion, error) {
	list, err := s.suggestions.ListByStatus(ctx, s.pool, status, limit)
	if err != nil {
		return nil, domain.ErrInternal("list suggestions", err)
	}
	return list, nil
}

// ReviewSuggestion approves or rejects a pending suggestion. A suggestion
// already out of pending yields a conflict, and approval atomically creates
// the court from the proposed attributes.
func (s *SuggestionService) ReviewSuggestion(ctx context.Context, id uuid.UUID, action domain.ReviewAction, note *string, reviewerID uuid.UUID, reviewerName string) (*domain.CourtSuggestion, error) {
	status, err := statusForAction(action)
	if err != nil {
		return nil, err
	}

	existing, err := s.suggestions.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find suggestion", err)
	}
	if existing == nil {
		return nil, domain.ErrNotFound("suggestion", id.String())
	}
	if existing.SubmitterID == reviewerID {
		return nil, domain.ErrForbidden("cannot review your own suggestion")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	// Conditional transition: only a still-pending row is claimed, so two
	// concurrent reviewers cannot both decide the same suggestion.
	suggestion, err := s.suggestions.Review(ctx, tx, id, status, reviewerID, reviewerName, note)
	if err != nil {
		return nil, domain.ErrInternal("review suggestion", err)
	}
	if suggestion == nil {
		return nil, domain.ErrAlreadyReviewed("suggestion")
	}

	eventType := domain.EventSuggestionRejected
	if action == domain.ActionApprove {
		eventType = domain.EventSuggestionApproved
		court := suggestion.ToCourt()
		if err := s.courts.Create(ctx, tx, court); err != nil {
			return nil, domain.ErrInternal("create court from suggestion", err)
		}
		s.logger.Info("court created from suggestion", "court_id", court.ID, "suggestion_id", suggestion.ID)
	}

	event := domain.NewModerationEvent(domain.AggregateSuggestion, suggestion.ID, eventType, map[string]string{
		"suggestion_id": suggestion.ID.String(),
		"reviewer_id":   reviewerID.String(),
	})
	if err := s.outbox.Insert(ctx, tx, event); err != nil {
		return nil, domain.ErrInternal("record review event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}
	return suggestion, nil
}

// EditSuggestionInput carries a sparse patch proposal against a court.
type EditSuggestionInput struct {
	CourtID uuid.UUID         `json:"court_id"`
	Patch   domain.CourtPatch `json:"patch"`
}

// CreateEditSuggestion records a proposed edit to an existing court. A user
// may hold at most one pending edit suggestion per court.
func (s *SuggestionService) CreateEditSuggestion(ctx context.Context, in EditSuggestionInput, submitterID uuid.UUID, submitterName string) (*domain.CourtEditSuggestion, error) {
	if in.Patch.IsEmpty() {
		return nil, domain.ErrValidation("edit suggestion must change at least one field")
	}

	court, err := s.courts.FindByID(ctx, s.pool, in.CourtID)
	if err != nil {
		return nil, domain.ErrInternal("find court", err)
	}
	if court == nil {
		return nil, domain.ErrNotFound("court", in.CourtID.String())
	}

	suggestion := &domain.CourtEditSuggestion{
		ID:            uuid.New(),
		CourtID:       in.CourtID,
		Patch:         in.Patch,
		SubmitterID:   submitterID,
		SubmitterName: submitterName,
		Status:        domain.SuggestionPending,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.edits.Create(ctx, tx, suggestion); err != nil {
		if errors.Is(err, repository.ErrDuplicatePending) {
			return nil, domain.ErrConflict("you already have a pending edit suggestion for this court")
		}
		return nil, domain.ErrInternal("create edit suggestion", err)
	}
	event := domain.NewModerationEvent(domain.AggregateSuggestion, suggestion.ID, domain.EventEditSuggestionCreated, map[string]string{
		"suggestion_id": suggestion.ID.String(),
		"court_id":      in.CourtID.String(),
		"submitter_id":  submitterID.String(),
	})
	if err := s.outbox.Insert(ctx, tx, event); err != nil {
		return nil, domain.ErrInternal("record edit suggestion event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("edit suggestion created", "suggestion_id", suggestion.ID, "court_id", in.CourtID, "submitter_id", submitterID)
	return suggestion, nil
}

// ListMyEditSuggestions returns all edit suggestions a user has submitted.
func (s *SuggestionService) ListMyEditSuggestions(ctx context.Context, submitterID uuid.UUID) ([]domain.CourtEditSuggestion, error) {
	list, err := s.edits.ListBySubmitter(ctx, s.pool, submitterID)
	if err != nil {
		return nil, domain.ErrInternal("list edit suggestions", err)
	}
	return list, nil
}

// ListEditSuggestions returns edit suggestions in the given status.
func (s *SuggestionService) ListEditSuggestions(ctx context.Context, status domain.SuggestionStatus, limit int) ([]domain.CourtEditSuggestion, error) {
	list, err := s.edits.ListByStatus(ctx, s.pool, status, limit)
	if err != nil {
		return nil, domain.ErrInternal("list edit suggestions", err)
	}
	return list, nil
}

// ReviewEditSuggestion approves or rejects a pending edit suggestion.
// Admins cannot review their own submissions. Approval merges only the
// proposed fields onto the court and invalidates its cache entry.
func (s *SuggestionService) ReviewEditSuggestion(ctx context.Context, id uuid.UUID, action domain.ReviewAction, note *string, reviewerID uuid.UUID, reviewerName string) (*domain.CourtEditSuggestion, error) {
	status, err := statusForAction(action)
	if err != nil {
		return nil, err
	}

	existing, err := s.edits.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find edit suggestion", err)
	}
	if existing == nil {
		return nil, domain.ErrNotFound("edit suggestion", id.String())
	}
	if existing.SubmitterID == reviewerID {
		return nil, domain.ErrForbidden("cannot review your own suggestion")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	suggestion, err := s.edits.Review(ctx, tx, id, status, reviewerID, reviewerName, note)
	if err != nil {
		return nil, domain.ErrInternal("review edit suggestion", err)
	}
	if suggestion == nil {
		return nil, domain.ErrAlreadyReviewed("edit suggestion")
	}

	eventType := domain.EventEditSuggestionRejected
	if action == domain.ActionApprove {
		eventType = domain.EventEditSuggestionApproved
		updated, err := s.courts.ApplyPatch(ctx, tx, suggestion.CourtID, suggestion.Patch)
		if err != nil {
			return nil, domain.ErrInternal("apply court patch", err)
		}
		if updated == nil {
			return nil, domain.ErrNotFound("court", suggestion.CourtID.String())
		}
	}

	event := domain.NewModerationEvent(domain.AggregateSuggestion, suggestion.ID, eventType, map[string]string{
		"suggestion_id": suggestion.ID.String(),
		"court_id":      suggestion.CourtID.String(),
		"reviewer_id":   reviewerID.String(),
	})
	if err := s.outbox.Insert(ctx, tx, event); err != nil {
		return nil, domain.ErrInternal("record review event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	if action == domain.ActionApprove {
		s.courtCache.Invalidate(suggestion.CourtID)
	}
	return suggestion, nil
}

func statusForAction(action domain.ReviewAction) (domain.SuggestionStatus, error) {
	switch action {
	case domain.ActionApprove:
		return domain.SuggestionApproved, nil
	case domain.ActionReject:
		return domain.SuggestionRejected, nil
	default:
		return "", domain.ErrValidation(fmt.Sprintf("unknown review action %q", action))
	}
}
