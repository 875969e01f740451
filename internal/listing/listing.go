// Package listing implements the submission, moderation and ownership workflow
// of the directory.
package listing

import (
	"botlist/internal/config"
	"botlist/pkg/discord"
	"botlist/pkg/domain"
	"botlist/pkg/logger"
	"botlist/pkg/metrics"
	"botlist/pkg/serrors"
	"botlist/pkg/storage"
	"context"
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/riverqueue/river"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "botlist/internal/listing"

// Options configure the workflow. They are typically derived from application
// configuration.
type Options struct {
	// PageSize caps the number of approved listings returned by ListApproved.
	// Zero disables the cap.
	PageSize int
	// LogChannelID is the operations channel receiving audit messages. Audit
	// jobs are not enqueued when it is empty.
	LogChannelID string
	// AdminRoleID is the community role allowed to delete any listing.
	AdminRoleID domain.RoleID
	// MaxAttempts is the number of attempts for background jobs.
	MaxAttempts int
	// TracerProvider records the operation spans. Nil uses the global provider.
	TracerProvider trace.TracerProvider
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		PageSize:     cfg.Listing.PageSize,
		LogChannelID: cfg.Community.LogChannelID,
		AdminRoleID:  domain.RoleID(cfg.Community.AdminRoleID),
		MaxAttempts:  cfg.Jobs.MaxAttempts,
	}
}

// service is the concrete implementation of the Service interface.
type service struct {
	options  Options
	storage  storage.Storage
	accounts discord.IdentityResolver
	members  discord.Membership

	tracer     trace.Tracer
	operations metric.Int64Counter
}

// New creates a Service backed by the provided storage and platform collaborators.
func New(storage storage.Storage,
	accounts discord.IdentityResolver,
	members discord.Membership,
	options Options) (Service, error) {
	operations, err := otel.Meter(instrumentationName).Int64Counter("listing.operations",
		metric.WithDescription("Workflow operations by outcome"))
	if err != nil {
		return nil, fmt.Errorf("could not create operations counter: %w", err)
	}

	tp := options.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &service{
		options:    options,
		storage:    storage,
		accounts:   accounts,
		members:    members,
		tracer:     tp.Tracer(instrumentationName),
		operations: operations,
	}, nil
}

// start opens a span for op. The returned func must be deferred with the
// operation's error to record the outcome.
func (s *service) start(ctx context.Context, op string) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "listing."+op)
	fields := []zap.Field{zap.String("operation", op)}
	if sc := span.SpanContext(); sc.IsValid() {
		fields = append(fields, zap.String("traceID", sc.TraceID().String()))
	}
	ctx = logger.WithFields(ctx, fields...)

	return ctx, func(err error) {
		outcome := metrics.Outcome(err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		s.operations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", op),
			attribute.String("outcome", outcome)))
		span.End()
	}
}

// enqueue adds a background job. Failures are logged and never surfaced.
func (s *service) enqueue(ctx context.Context, args river.JobArgs) {
	added, err := s.storage.AddJob(ctx, args, nil)
	if err != nil {
		logger.Error(ctx, "could not enqueue job", zap.String("kind", args.Kind()), zap.Error(err))

		return
	}
	if !added {
		logger.Info(ctx, "job already queued", zap.String("kind", args.Kind()))
	}
}

func (s *service) audit(ctx context.Context, actor domain.PrincipalID, action AuditAction, l *domain.Listing) {
	if s.options.LogChannelID == "" {
		return
	}

	s.enqueue(ctx, s.auditJob(actor, action, l))
}

func (s *service) auditJob(actor domain.PrincipalID, action AuditAction, l *domain.Listing) AuditJobArgs {
	return AuditJobArgs{
		ChannelID:   s.options.LogChannelID,
		ActorID:     actor,
		Action:      action,
		ListingID:   l.ID,
		ListingName: l.Username,
		MaxAttempts: s.options.MaxAttempts,
	}
}

// Submit validates the payload, checks the listed account and the submitter,
// and stores a pending listing owned by the principal.
func (s *service) Submit(ctx context.Context,
	principal domain.Principal,
	payload Payload) (_ *domain.Listing, err error) {
	ctx, done := s.start(ctx, "submit")
	defer func() { done(err) }()

	if !principal.Authenticated() {
		return nil, serrors.With(ErrUnauthenticated, "you must be logged in to submit a bot")
	}
	if err := Validate(payload, SubmissionMode); err != nil {
		return nil, err
	}
	ID, _ := ExtractID(payload[FieldClientID])
	ctx = logger.WithFields(ctx, zap.String("listingID", string(ID)))

	account, err := s.accounts.FetchAccount(ctx, string(ID))
	if err != nil {
		if errors.Is(err, serrors.ErrNotFound) {
			return nil, serrors.Wrap(ErrUnknownAccount, err, "no account with id %s exists", ID)
		}

		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not resolve account")
	}

	existing, err := s.storage.ListingByID(ctx, ID)
	if err != nil {
		return nil, fmt.Errorf("could not get listing: %w", err)
	}
	if existing != nil {
		return nil, serrors.With(ErrAlreadyListed, "%s is already listed!", existing.Username)
	}

	if !account.ServiceAccount {
		return nil, serrors.With(ErrNotAServiceAccount, "%s is not a bot", account.Username)
	}

	member, err := s.members.IsMember(ctx, string(principal.ID))
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not check community membership")
	}
	if !member {
		return nil, serrors.With(ErrNotACommunityMember, "you must be a member of the community to submit a bot")
	}

	created, err := s.storage.InsertListing(ctx, domain.Listing{
		ID:                 ID,
		Invite:             payload[FieldInviteURL],
		Prefix:             payload[FieldPrefix],
		ShortDescription:   payload[FieldShortDesc],
		LongDescription:    payload[FieldLongDesc],
		OwnerID:            principal.ID,
		AdditionalOwnerIDs: ParseOwners(payload[FieldOwners], principal.ID),
		Username:           account.Username,
		Discriminator:      account.Discriminator,
		Avatar:             account.Avatar,
		Approved:           false,
		AddedAt:            time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, serrors.Wrap(ErrAlreadyListed, err, "%s is already listed!", account.Username)
		}

		return nil, fmt.Errorf("could not store listing: %w", err)
	}

	logger.Info(ctx, "listing submitted", zap.String("ownerID", string(principal.ID)))
	s.audit(ctx, principal.ID, ActionAdded, created)

	return created, nil
}

// Edit replaces the content fields of a listing owned by the principal.
func (s *service) Edit(ctx context.Context,
	principal domain.Principal,
	ID domain.ListingID,
	payload Payload) (_ *domain.Listing, err error) {
	ctx, done := s.start(ctx, "edit")
	defer func() { done(err) }()

	if !principal.Authenticated() {
		return nil, serrors.With(ErrUnauthenticated, "you must be logged in to edit a bot")
	}

	fields := make(Payload, len(payload)+1)
	maps.Copy(fields, payload)
	if _, ok := fields[FieldClientID]; !ok {
		fields[FieldClientID] = string(ID)
	}
	if err := Validate(fields, EditMode); err != nil {
		return nil, err
	}
	if clientID, _ := ExtractID(fields[FieldClientID]); clientID != ID {
		return nil, serrors.With(ErrInvalidIdentifier, "client id does not match the bot being edited")
	}
	ctx = logger.WithFields(ctx, zap.String("listingID", string(ID)))

	existing, err := s.storage.ListingByID(ctx, ID)
	if err != nil {
		return nil, fmt.Errorf("could not get listing: %w", err)
	}
	if existing == nil {
		return nil, serrors.With(ErrNotFound, "bot %s is not listed", ID)
	}
	if existing.OwnerID != principal.ID {
		return nil, serrors.With(ErrNotOwner, "you do not own %s", existing.Username)
	}

	updates := storage.ListingUpdates{
		Prefix:           fields[FieldPrefix],
		ShortDescription: fields[FieldShortDesc],
		LongDescription:  fields[FieldLongDesc],
	}
	if invite, ok := fields[FieldInviteURL]; ok {
		updates.Invite = &invite
	}

	updated, err := s.storage.UpdateListing(ctx, ID, updates)
	if err != nil {
		return nil, fmt.Errorf("could not update listing: %w", err)
	}
	if updated == nil {
		return nil, serrors.With(ErrNotFound, "bot %s is not listed", ID)
	}

	logger.Info(ctx, "listing edited")
	s.audit(ctx, principal.ID, ActionEdited, updated)

	return updated, nil
}

// Delete removes a listing. The owner and holders of the admin role may delete;
// the listed account is then removed from the community in the background.
func (s *service) Delete(ctx context.Context,
	principal domain.Principal,
	ID domain.ListingID) (_ *domain.Listing, err error) {
	ctx, done := s.start(ctx, "delete")
	defer func() { done(err) }()

	if !principal.Authenticated() {
		return nil, serrors.With(ErrUnauthenticated, "you must be logged in to delete a bot")
	}
	ctx = logger.WithFields(ctx, zap.String("listingID", string(ID)))

	existing, err := s.storage.ListingByID(ctx, ID)
	if err != nil {
		return nil, fmt.Errorf("could not get listing: %w", err)
	}
	if existing == nil {
		return nil, serrors.With(ErrNotFound, "bot %s is not listed", ID)
	}

	if existing.OwnerID != principal.ID {
		allowed, err := s.isAdmin(ctx, principal.ID)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, serrors.With(ErrForbidden, "you are not allowed to delete %s", existing.Username)
		}
	}

	removed, err := s.storage.DeleteListing(ctx, ID)
	if err != nil {
		return nil, fmt.Errorf("could not delete listing: %w", err)
	}
	if removed == nil {
		return nil, serrors.With(ErrNotFound, "bot %s is not listed", ID)
	}

	logger.Info(ctx, "listing deleted", zap.String("actorID", string(principal.ID)))
	// the removal only follows a deleted record
	s.enqueue(ctx, RemoveMemberJobArgs{
		AccountID:   ID,
		ActorID:     principal.ID,
		MaxAttempts: s.options.MaxAttempts,
	})
	s.audit(ctx, principal.ID, ActionDeleted, removed)

	return removed, nil
}

func (s *service) isAdmin(ctx context.Context, ID domain.PrincipalID) (bool, error) {
	if s.options.AdminRoleID == "" {
		return false, nil
	}

	roles, err := s.members.RolesOf(ctx, string(ID))
	if err != nil {
		return false, serrors.Wrap(serrors.ErrInternal, err, "could not get community roles")
	}

	return slices.Contains(roles, s.options.AdminRoleID), nil
}

// Approve publishes a pending listing. The audit job is enqueued in the same
// transaction as the state change.
func (s *service) Approve(ctx context.Context, ID domain.ListingID) (_ *domain.Listing, err error) {
	ctx, done := s.start(ctx, "approve")
	defer func() { done(err) }()

	var approved *domain.Listing
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		res, err := tx.ApproveListing(ctx, ID)
		if err != nil {
			return fmt.Errorf("could not approve listing: %w", err)
		}
		if res == nil {
			return serrors.With(ErrNotFound, "no pending bot %s", ID)
		}
		approved = res

		if s.options.LogChannelID == "" {
			return nil
		}
		if _, err := tx.AddJob(ctx, s.auditJob("", ActionApproved, res), nil); err != nil {
			return fmt.Errorf("could not add job: %w", err)
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return approved, nil
}

// Listing returns a single listing regardless of its moderation state.
func (s *service) Listing(ctx context.Context, ID domain.ListingID) (*domain.Listing, error) {
	res, err := s.storage.ListingByID(ctx, ID)
	if err != nil {
		return nil, fmt.Errorf("could not get listing: %w", err)
	}
	if res == nil {
		return nil, serrors.With(ErrNotFound, "bot %s is not listed", ID)
	}

	return res, nil
}

// ListApproved returns a random page of approved listings. Every permutation
// is equally likely on each call.
func (s *service) ListApproved(ctx context.Context) ([]domain.Listing, error) {
	res, err := s.storage.ListingsByApproval(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("could not get approved listings: %w", err)
	}

	rand.Shuffle(len(res), func(i, j int) {
		res[i], res[j] = res[j], res[i]
	})
	if s.options.PageSize > 0 && len(res) > s.options.PageSize {
		res = res[:s.options.PageSize]
	}

	return res, nil
}

// ListQueued returns the moderation queue, oldest submission first.
func (s *service) ListQueued(ctx context.Context) ([]domain.Listing, error) {
	res, err := s.storage.ListingsByApproval(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("could not get queued listings: %w", err)
	}

	return res, nil
}

// ListAll returns every listing in storage order.
func (s *service) ListAll(ctx context.Context) ([]domain.Listing, error) {
	res, err := s.storage.AllListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get listings: %w", err)
	}

	return res, nil
}

// ListOwnedBy returns the listings whose primary owner is principalID, split by
// moderation state.
func (s *service) ListOwnedBy(ctx context.Context, principalID domain.PrincipalID) (*domain.OwnedListings, error) {
	if principalID == "" {
		return nil, serrors.With(ErrUnauthenticated, "you must be logged in to see your bots")
	}

	res, err := s.storage.ListingsByOwner(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("could not get owned listings: %w", err)
	}

	owned := &domain.OwnedListings{
		Approved: []domain.Listing{},
		Pending:  []domain.Listing{},
	}
	for _, l := range res {
		if l.Approved {
			owned.Approved = append(owned.Approved, l)
		} else {
			owned.Pending = append(owned.Pending, l)
		}
	}

	return owned, nil
}
