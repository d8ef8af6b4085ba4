package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf16"

	"go.uber.org/zap"

	"place-trainer/internal/domain"
	"place-trainer/internal/metrics"
	"place-trainer/internal/repository"
)

const (
	DefaultAutoVerifyLimit = 5
	autoVerifyMinAge       = 24 * time.Hour
	autoVerifyMinCost      = 10.0
	autoVerifyMinCaption   = 20

	autoVerifiedBy     = "system"
	autoVerifiedReason = "Auto-verified by system"
)

var errEmptyPlaceID = errors.New("empty place id")

// Identity es el llamador autenticado de un endpoint callable.
type Identity struct {
	UID string
}

// VerifyPlaceInput son los datos de verifyPlace.
type VerifyPlaceInput struct {
	PlaceID  string `json:"placeId"`
	Approved bool   `json:"approved"`
	Reason   string `json:"reason"`
}

// VerifyPlaceResult es la respuesta de verifyPlace.
type VerifyPlaceResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// VerificationService aprueba o rechaza lugares pendientes, a mano o por heurística.
type VerificationService struct {
	logger *zap.Logger
	places repository.PlaceRepository
	limit  int
	now    func() time.Time
}

func NewVerificationService(logger *zap.Logger, places repository.PlaceRepository, limit int) *VerificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit <= 0 {
		limit = DefaultAutoVerifyLimit
	}
	return &VerificationService{
		logger: logger,
		places: places,
		limit:  limit,
		now:    time.Now,
	}
}

// VerifyPlace registra la decisión de un admin. Sin identidad no toca el store.
func (s *VerificationService) VerifyPlace(ctx context.Context, caller *Identity, in VerifyPlaceInput) (VerifyPlaceResult, error) {
	if caller == nil || strings.TrimSpace(caller.UID) == "" {
		return VerifyPlaceResult{}, unauthenticatedError("Must be authenticated")
	}
	placeID := strings.TrimSpace(in.PlaceID)
	if placeID == "" {
		s.logger.Error("error verifying place", zap.Error(errEmptyPlaceID))
		return VerifyPlaceResult{}, internalError("Verification failed", errEmptyPlaceID)
	}

	err := s.places.Verify(ctx, domain.PlaceVerification{
		PlaceID:    placeID,
		Approved:   in.Approved,
		Reason:     in.Reason,
		VerifiedBy: caller.UID,
		VerifiedAt: s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrPlaceNotFound) {
			s.logger.Warn("verify unknown place", zap.String("place_id", placeID))
		} else {
			s.logger.Error("error verifying place", zap.String("place_id", placeID), zap.Error(err))
		}
		return VerifyPlaceResult{}, internalError("Verification failed", err)
	}
	metrics.RecordVerification("manual", in.Approved)

	msg := "Place rejected"
	if in.Approved {
		msg = "Place approved"
	}
	return VerifyPlaceResult{Success: true, Message: msg}, nil
}

// AutoVerify revisa hasta limit lugares rechazados con más de 24h y aprueba los
// que pasan la heurística en un único commit. Los demás quedan para la próxima corrida.
func (s *VerificationService) AutoVerify(ctx context.Context) (int, error) {
	now := s.now()
	cutoff := now.UnixMilli() - autoVerifyMinAge.Milliseconds()

	candidates, err := s.places.ListUnverifiedAddedBefore(ctx, cutoff, s.limit)
	if err != nil {
		return 0, err
	}

	var approvals []domain.PlaceVerification
	for _, p := range candidates {
		if !QualifiesForAutoVerify(p) {
			continue
		}
		approvals = append(approvals, domain.PlaceVerification{
			PlaceID:    p.ID,
			Approved:   true,
			Reason:     autoVerifiedReason,
			VerifiedBy: autoVerifiedBy,
			VerifiedAt: now.UTC(),
		})
	}
	if len(approvals) == 0 {
		return 0, nil
	}

	if err := s.places.ApplyVerifications(ctx, approvals); err != nil {
		return 0, err
	}
	for range approvals {
		metrics.RecordVerification("scheduled", true)
	}
	s.logger.Info("auto-verified places", zap.Int("count", len(approvals)))
	return len(approvals), nil
}

// RunScheduledVerification es el job diario; los errores se loguean y no se propagan.
func (s *VerificationService) RunScheduledVerification(ctx context.Context) {
	s.logger.Info("running scheduled place verification")
	if _, err := s.AutoVerify(ctx); err != nil {
		s.logger.Error("scheduled verification failed", zap.Error(err))
	}
}

// QualifiesForAutoVerify aplica la heurística: costo > 10, al menos una actividad
// y caption de más de 20 caracteres (unidades UTF-16, como lo cuentan los clientes).
func QualifiesForAutoVerify(p domain.PlaceRecord) bool {
	if p.Cost == nil || *p.Cost <= autoVerifyMinCost {
		return false
	}
	if len(p.Activities) == 0 {
		return false
	}
	return len(utf16.Encode([]rune(p.Caption))) > autoVerifyMinCaption
}
