package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/internal/models"
	"github.com/noah-isme/portfolio-api/internal/observability"
	"github.com/noah-isme/portfolio-api/internal/repository"
)

var (
	// ErrContactInvalid indicates a required contact field was missing or blank.
	ErrContactInvalid = errors.New("missing required fields")
	// ErrCaptchaMissing indicates the request carried no CAPTCHA token.
	ErrCaptchaMissing = errors.New("missing captcha token")
	// ErrCaptchaRejected indicates the token failed verification or was replayed.
	ErrCaptchaRejected = errors.New("invalid captcha")
	// ErrContactPersistence indicates the submission could not be stored.
	ErrContactPersistence = errors.New("failed to store contact submission")
)

// ContactState names the stages a submission passes through.
type ContactState string

const (
	StateReceived        ContactState = "received"
	StateValidated       ContactState = "validated"
	StateCaptchaVerified ContactState = "captcha_verified"
	StatePersisted       ContactState = "persisted"
	StateNotified        ContactState = "notified"
	StateResponded       ContactState = "responded"
	StateRejectedInvalid ContactState = "rejected_invalid"
	StateRejectedCaptcha ContactState = "rejected_captcha"
	StateFailed          ContactState = "failed"
)

// ContactService exposes the contact submission workflow.
type ContactService interface {
	Submit(ctx context.Context, req dto.ContactRequest) (dto.ContactResponse, error)
}

type contactService struct {
	repo       repository.ContactRepository
	validator  *ContactValidator
	verifier   CaptchaVerifier
	replay     TokenReplayGuard
	dispatcher ContactDispatcher
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewContactService constructs a contact submission service. replay may be nil.
func NewContactService(repo repository.ContactRepository, validator *ContactValidator, verifier CaptchaVerifier, replay TokenReplayGuard, dispatcher ContactDispatcher, logger zerolog.Logger) ContactService {
	return &contactService{
		repo:       repo,
		validator:  validator,
		verifier:   verifier,
		replay:     replay,
		dispatcher: dispatcher,
		logger:     logger.With().Str("component", "contact_service").Logger(),
		tracer:     otel.Tracer("github.com/noah-isme/portfolio-api/internal/service/contact"),
	}
}

// Submit validates, verifies, stores and then announces a submission. Each step
// gates the next except the announcement, whose outcome never reaches the caller.
func (s *contactService) Submit(ctx context.Context, req dto.ContactRequest) (dto.ContactResponse, error) {
	ctx, span := s.tracer.Start(ctx, "contact.submit")
	defer span.End()

	s.transition(span, StateReceived)

	normalized, err := s.validator.Validate(req)
	if err != nil {
		return s.reject(span, StateRejectedInvalid, err)
	}
	s.transition(span, StateValidated)

	if normalized.Token == "" {
		return s.reject(span, StateRejectedCaptcha, ErrCaptchaMissing)
	}

	if s.replay != nil {
		fresh, err := s.replay.Claim(ctx, normalized.Token)
		switch {
		case err != nil:
			span.RecordError(err)
			s.logger.Warn().Err(err).Msg("captcha replay check unavailable")
		case !fresh:
			return s.reject(span, StateRejectedCaptcha, fmt.Errorf("%w: token already used", ErrCaptchaRejected))
		}
	}

	verified, err := s.verifier.Verify(ctx, normalized.Token, normalized.IPAddress)
	if err != nil {
		span.RecordError(err)
		s.logger.Warn().Err(err).Msg("captcha verification errored")
	}
	if !verified {
		return s.reject(span, StateRejectedCaptcha, ErrCaptchaRejected)
	}
	s.transition(span, StateCaptchaVerified)

	submission := models.ContactSubmission{
		Name:        normalized.Name,
		Email:       normalized.Email,
		Phone:       normalized.Phone,
		Description: normalized.Description,
		IPAddress:   normalized.IPAddress,
	}

	if err := s.repo.Create(ctx, &submission); err != nil {
		span.RecordError(err)
		return s.reject(span, StateFailed, fmt.Errorf("%w: %w", ErrContactPersistence, err))
	}
	s.transition(span, StatePersisted)
	span.SetAttributes(attribute.Int64("contact.form_id", int64(submission.ID)))

	s.dispatcher.Dispatch(ctx, submission)
	s.transition(span, StateNotified)

	s.logger.Info().
		Uint("form_id", submission.ID).
		Str("email", maskEmailAddress(submission.Email)).
		Msg("contact submission processed")

	s.transition(span, StateResponded)
	observability.ContactSubmissions().WithLabelValues(string(StateResponded)).Inc()
	span.SetStatus(codes.Ok, "stored")

	return dto.ContactResponse{Success: true, FormID: submission.ID}, nil
}

func (s *contactService) transition(span trace.Span, state ContactState) {
	span.AddEvent(string(state))
	span.SetAttributes(attribute.String("contact.state", string(state)))
}

func (s *contactService) reject(span trace.Span, state ContactState, err error) (dto.ContactResponse, error) {
	s.transition(span, state)
	span.SetStatus(codes.Error, string(state))
	observability.ContactSubmissions().WithLabelValues(string(state)).Inc()
	return dto.ContactResponse{}, err
}
