package service

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"realty-agent-be/internal/constant"
	"realty-agent-be/internal/dto"
	"realty-agent-be/internal/entity"
	"realty-agent-be/internal/mapper"
	"realty-agent-be/internal/pkg/logger"
	"realty-agent-be/internal/pkg/serverutils"
	"realty-agent-be/internal/repository/contract"
	"realty-agent-be/pkg/events"
	pkgnats "realty-agent-be/pkg/nats"
	"realty-agent-be/pkg/sensay"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type IKnowledgeService interface {
	// Snapshot returns the tracker's cached view, fetching once if nothing is
	// cached yet.
	Snapshot(ctx context.Context, replicaID string) (*dto.KnowledgeSnapshotResponse, error)

	// Refresh forces a fetch, bypassing the cache. This is the manual retry
	// path; nothing in the system refreshes automatically after a failure.
	Refresh(ctx context.Context, replicaID string) (*dto.KnowledgeSnapshotResponse, error)

	AddText(ctx context.Context, replicaID string, req *dto.AddTextKnowledgeRequest) (*dto.SubmissionAcceptedResponse, error)
	AddListing(ctx context.Context, replicaID string, req *dto.PropertyListingRequest) (*dto.SubmissionAcceptedResponse, error)
	AddURL(ctx context.Context, replicaID string, req *dto.AddURLKnowledgeRequest) (*dto.SubmissionAcceptedResponse, error)
	AddFile(ctx context.Context, replicaID, filename, contentType, title string, file io.Reader) (*dto.SubmissionAcceptedResponse, error)
	Delete(ctx context.Context, replicaID string, itemID int64) error

	// Submissions returns the local audit trail of accepted ingestions.
	Submissions(ctx context.Context, replicaID string, limit, offset int) ([]entity.Submission, error)
}

type knowledgeService struct {
	provider        GatewayProvider
	tracker         ITrackerService
	submissionRepo  contract.SubmissionRepository
	publisher       IPublisherService
	eventPublisher  *pkgnats.Publisher
	knowledgeMapper *mapper.KnowledgeMapper
	logger          logger.ILogger
}

func NewKnowledgeService(
	provider GatewayProvider,
	tracker ITrackerService,
	submissionRepo contract.SubmissionRepository,
	publisher IPublisherService,
	eventPublisher *pkgnats.Publisher,
	knowledgeMapper *mapper.KnowledgeMapper,
	logger logger.ILogger,
) IKnowledgeService {
	return &knowledgeService{
		provider:        provider,
		tracker:         tracker,
		submissionRepo:  submissionRepo,
		publisher:       publisher,
		eventPublisher:  eventPublisher,
		knowledgeMapper: knowledgeMapper,
		logger:          logger,
	}
}

func (s *knowledgeService) Snapshot(ctx context.Context, replicaID string) (*dto.KnowledgeSnapshotResponse, error) {
	if snap, ok := s.tracker.Snapshot(replicaID); ok {
		return s.toSnapshotResponse(snap), nil
	}
	return s.Refresh(ctx, replicaID)
}

func (s *knowledgeService) Refresh(ctx context.Context, replicaID string) (*dto.KnowledgeSnapshotResponse, error) {
	snap, err := s.tracker.Refresh(ctx, replicaID)
	if err != nil {
		return nil, err
	}
	return s.toSnapshotResponse(snap), nil
}

func (s *knowledgeService) AddText(ctx context.Context, replicaID string, req *dto.AddTextKnowledgeRequest) (*dto.SubmissionAcceptedResponse, error) {
	// Whitespace-only content is rejected locally; the platform never sees it.
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, serverutils.NewFieldError("content", "Content cannot be empty.")
	}

	gw, err := s.provider.Gateway()
	if err != nil {
		return nil, err
	}

	item, err := gw.AddTextKnowledge(ctx, replicaID, content, req.Title)
	if err != nil {
		return nil, err
	}

	title := req.Title
	if title == "" && item != nil {
		title = item.Title
	}
	s.recordAccepted(ctx, replicaID, constant.KnowledgeKindText, title, item, nil)
	return acceptedResponse(constant.KnowledgeKindText, title, item), nil
}

func (s *knowledgeService) AddListing(ctx context.Context, replicaID string, req *dto.PropertyListingRequest) (*dto.SubmissionAcceptedResponse, error) {
	doc, err := normalizeListing(req)
	if err != nil {
		return nil, err
	}

	// The document is submitted as indented JSON so the replica can cite
	// fields verbatim; parsing the stored text back yields the same values.
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}

	gw, err := s.provider.Gateway()
	if err != nil {
		return nil, err
	}

	title := constant.ListingTitlePrefix + doc.Address
	item, err := gw.AddTextKnowledge(ctx, replicaID, string(data), title)
	if err != nil {
		return nil, err
	}

	s.recordAccepted(ctx, replicaID, constant.KnowledgeKindText, title, item, doc)
	return acceptedResponse(constant.KnowledgeKindText, title, item), nil
}

func (s *knowledgeService) AddURL(ctx context.Context, replicaID string, req *dto.AddURLKnowledgeRequest) (*dto.SubmissionAcceptedResponse, error) {
	gw, err := s.provider.Gateway()
	if err != nil {
		return nil, err
	}

	item, err := gw.AddURLKnowledge(ctx, replicaID, strings.TrimSpace(req.URL), req.Title)
	if err != nil {
		return nil, err
	}

	title := req.Title
	if title == "" {
		title = req.URL
	}
	s.recordAccepted(ctx, replicaID, constant.KnowledgeKindWebsite, title, item, nil)
	return acceptedResponse(constant.KnowledgeKindWebsite, title, item), nil
}

// AddFile runs the two-step upload: negotiate a signed URL, then transfer the
// bytes with a plain PUT. The two steps fail differently and are wrapped so
// the caller can tell them apart.
func (s *knowledgeService) AddFile(ctx context.Context, replicaID, filename, contentType, title string, file io.Reader) (*dto.SubmissionAcceptedResponse, error) {
	gw, err := s.provider.Gateway()
	if err != nil {
		return nil, err
	}

	if title == "" {
		title = filename
	}

	signedURL, err := gw.RequestFileUpload(ctx, replicaID, filename, title)
	if err != nil {
		return nil, &sensay.UploadError{Phase: sensay.UploadPhaseNegotiate, Err: err}
	}

	if err := gw.UploadToSignedURL(ctx, signedURL, contentType, file); err != nil {
		return nil, &sensay.UploadError{Phase: sensay.UploadPhaseTransfer, Err: err}
	}

	s.recordAccepted(ctx, replicaID, constant.KnowledgeKindFile, title, nil, nil)
	return acceptedResponse(constant.KnowledgeKindFile, title, nil), nil
}

func (s *knowledgeService) Delete(ctx context.Context, replicaID string, itemID int64) error {
	gw, err := s.provider.Gateway()
	if err != nil {
		return err
	}

	if err := gw.DeleteKnowledgeItem(ctx, replicaID, itemID); err != nil {
		return err
	}

	s.publishInvalidation(ctx, replicaID)
	s.publishEvent(ctx, constant.EventKnowledgeDeleted, map[string]interface{}{
		"replica_id": replicaID,
		"item_id":    itemID,
	})
	return nil
}

func (s *knowledgeService) Submissions(ctx context.Context, replicaID string, limit, offset int) ([]entity.Submission, error) {
	return s.submissionRepo.FindByReplica(ctx, replicaID, limit, offset)
}

// recordAccepted runs the post-acceptance bookkeeping: audit row, cache
// invalidation, notification event. All of it is auxiliary; the submission
// already succeeded and none of these failures are surfaced to the caller.
func (s *knowledgeService) recordAccepted(ctx context.Context, replicaID, kind, title string, item *sensay.KnowledgeItem, document interface{}) {
	submission := &entity.Submission{
		Id:        uuid.New(),
		ReplicaId: replicaID,
		Kind:      kind,
		Title:     title,
	}
	if item != nil {
		submission.RemoteId = item.ID
	}
	if document != nil {
		if data, err := json.Marshal(document); err == nil {
			submission.Document = datatypes.JSON(data)
		}
	}
	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		s.logger.Warn("knowledge", "failed to record submission audit row", map[string]interface{}{
			"replica_id": replicaID,
			"error":      err.Error(),
		})
	}

	s.publishInvalidation(ctx, replicaID)
	s.publishEvent(ctx, constant.EventKnowledgeSubmitted, map[string]interface{}{
		"replica_id": replicaID,
		"title":      title,
	})
}

func (s *knowledgeService) publishInvalidation(ctx context.Context, replicaID string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishKnowledgeSubmitted(ctx, replicaID); err != nil {
		s.logger.Warn("knowledge", "failed to publish invalidation message", map[string]interface{}{
			"replica_id": replicaID,
			"error":      err.Error(),
		})
	}
}

func (s *knowledgeService) publishEvent(ctx context.Context, typeCode string, payload map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.New(typeCode, payload)); err != nil {
		s.logger.Warn("knowledge", "failed to publish event", map[string]interface{}{
			"event": typeCode,
			"error": err.Error(),
		})
	}
}

func (s *knowledgeService) toSnapshotResponse(snap *TrackedSnapshot) *dto.KnowledgeSnapshotResponse {
	refreshedAt := snap.RefreshedAt
	return &dto.KnowledgeSnapshotResponse{
		Items:       s.knowledgeMapper.ToResponseList(snap.Items),
		Polling:     snap.Polling,
		RefreshedAt: &refreshedAt,
	}
}

func acceptedResponse(kind, title string, item *sensay.KnowledgeItem) *dto.SubmissionAcceptedResponse {
	resp := &dto.SubmissionAcceptedResponse{Kind: kind, Title: title}
	if item != nil {
		resp.ItemID = item.ID
	}
	return resp
}

// normalizeListing coerces the raw form values into the canonical document.
// Numeric fields arrive as strings; a value that does not parse is a field
// error, not a silent zero.
func normalizeListing(req *dto.PropertyListingRequest) (*dto.PropertyListingDocument, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(req.Price), 64)
	if err != nil {
		return nil, serverutils.NewFieldError("price", "must be a number")
	}

	doc := &dto.PropertyListingDocument{
		Address:        strings.TrimSpace(req.Address),
		Price:          price,
		Description:    strings.TrimSpace(req.Description),
		VirtualTourURL: strings.TrimSpace(req.VirtualTourURL),
	}

	if v := strings.TrimSpace(req.Bedrooms); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, serverutils.NewFieldError("bedrooms", "must be a whole number")
		}
		doc.Bedrooms = n
	}
	if v := strings.TrimSpace(req.Bathrooms); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, serverutils.NewFieldError("bathrooms", "must be a number")
		}
		doc.Bathrooms = n
	}
	if v := strings.TrimSpace(req.SquareFootage); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, serverutils.NewFieldError("square_footage", "must be a whole number")
		}
		doc.SquareFootage = n
	}

	for _, raw := range strings.Split(req.PhotoURLs, ",") {
		if u := strings.TrimSpace(raw); u != "" {
			doc.PhotoURLs = append(doc.PhotoURLs, u)
		}
	}
	return doc, nil
}
