package service

import (
	"context"
	"sync"
	"time"

	"realty-agent-be/internal/constant"
	"realty-agent-be/internal/dto"
	"realty-agent-be/internal/mapper"
	"realty-agent-be/internal/pkg/logger"
	"realty-agent-be/pkg/events"
	pkgnats "realty-agent-be/pkg/nats"
	"realty-agent-be/pkg/sensay"

	gocache "github.com/patrickmn/go-cache"
)

// TrackedSnapshot is the cached view of one replica's knowledge base.
type TrackedSnapshot struct {
	Items       []sensay.KnowledgeItem
	RefreshedAt time.Time
	Polling     bool
}

// StatusDelivery pushes refreshed knowledge state to connected dashboards.
type StatusDelivery interface {
	PushKnowledgeStatus(replicaID string, items []dto.KnowledgeItemResponse)
}

// ITrackerService owns the remote-status polling loop. Polling is per replica
// and stops on its own once every item reaches a terminal status; a new
// submission restarts it through Invalidate plus Refresh.
type ITrackerService interface {
	Snapshot(replicaID string) (*TrackedSnapshot, bool)
	Refresh(ctx context.Context, replicaID string) (*TrackedSnapshot, error)
	Invalidate(replicaID string)
	Reset()
	Stop()
}

type trackerService struct {
	provider        GatewayProvider
	interval        time.Duration
	snapshots       *gocache.Cache
	eventPublisher  *pkgnats.Publisher
	delivery        StatusDelivery
	knowledgeMapper *mapper.KnowledgeMapper
	logger          logger.ILogger

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

func NewTrackerService(
	provider GatewayProvider,
	interval time.Duration,
	eventPublisher *pkgnats.Publisher,
	delivery StatusDelivery,
	knowledgeMapper *mapper.KnowledgeMapper,
	logger logger.ILogger,
) ITrackerService {
	return &trackerService{
		provider:        provider,
		interval:        interval,
		snapshots:       gocache.New(30*time.Minute, 10*time.Minute),
		eventPublisher:  eventPublisher,
		delivery:        delivery,
		knowledgeMapper: knowledgeMapper,
		logger:          logger,
		timers:          make(map[string]*time.Timer),
	}
}

func (s *trackerService) Snapshot(replicaID string) (*TrackedSnapshot, bool) {
	value, ok := s.snapshots.Get(replicaID)
	if !ok {
		return nil, false
	}
	return value.(*TrackedSnapshot), true
}

// Refresh fetches the knowledge base once and re-arms the poll timer when any
// item is still in flight. A remote failure degrades the read: the last known
// snapshot is kept, a notification event goes out, and polling stops until
// the user refreshes manually.
func (s *trackerService) Refresh(ctx context.Context, replicaID string) (*TrackedSnapshot, error) {
	gw, err := s.provider.Gateway()
	if err != nil {
		return nil, err
	}

	items, err := gw.ListKnowledgeBase(ctx, replicaID)
	if err != nil {
		s.logger.Warn("tracker", "knowledge base fetch failed", map[string]interface{}{
			"replica_id": replicaID,
			"error":      err.Error(),
		})
		s.cancelTimer(replicaID)
		s.publishEvent(ctx, constant.EventRemoteReadDegraded, map[string]interface{}{
			"resource":   "knowledge base",
			"replica_id": replicaID,
		})
		if prev, ok := s.Snapshot(replicaID); ok {
			return prev, nil
		}
		return nil, err
	}

	s.announceTransitions(ctx, replicaID, items)

	pending := hasPendingItems(items)
	snap := &TrackedSnapshot{
		Items:       items,
		RefreshedAt: time.Now(),
		Polling:     pending,
	}
	s.snapshots.Set(replicaID, snap, gocache.DefaultExpiration)

	if s.delivery != nil {
		s.delivery.PushKnowledgeStatus(replicaID, s.knowledgeMapper.ToResponseList(items))
	}

	if pending {
		s.scheduleNext(replicaID)
	} else {
		s.cancelTimer(replicaID)
	}
	return snap, nil
}

// Invalidate drops the cached snapshot and stops any scheduled poll. The next
// Refresh rebuilds both.
func (s *trackerService) Invalidate(replicaID string) {
	s.snapshots.Delete(replicaID)
	s.cancelTimer(replicaID)
}

// Reset clears all tracked state. Called when credentials change, since every
// snapshot belongs to the old organization.
func (s *trackerService) Reset() {
	s.snapshots.Flush()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *trackerService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

// announceTransitions publishes ready/failed events for items that were still
// in flight in the previous snapshot. Items first seen in a terminal state are
// not announced; there was no transition to report.
func (s *trackerService) announceTransitions(ctx context.Context, replicaID string, items []sensay.KnowledgeItem) {
	prev, ok := s.Snapshot(replicaID)
	if !ok {
		return
	}

	inFlight := make(map[int64]bool, len(prev.Items))
	for _, item := range prev.Items {
		if !item.Status.Terminal() {
			inFlight[item.ID] = true
		}
	}

	for _, item := range items {
		if !item.Status.Terminal() || !inFlight[item.ID] {
			continue
		}
		typeCode := constant.EventKnowledgeReady
		if item.Status.Failed() {
			typeCode = constant.EventKnowledgeFailed
		}
		s.publishEvent(ctx, typeCode, map[string]interface{}{
			"replica_id": replicaID,
			"item_id":    item.ID,
			"title":      item.Title,
		})
	}
}

func (s *trackerService) scheduleNext(replicaID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if timer, ok := s.timers[replicaID]; ok {
		timer.Stop()
	}
	s.timers[replicaID] = time.AfterFunc(s.interval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.Refresh(ctx, replicaID); err != nil {
			s.logger.Warn("tracker", "scheduled poll failed", map[string]interface{}{
				"replica_id": replicaID,
				"error":      err.Error(),
			})
		}
	})
}

func (s *trackerService) cancelTimer(replicaID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[replicaID]; ok {
		timer.Stop()
		delete(s.timers, replicaID)
	}
}

func hasPendingItems(items []sensay.KnowledgeItem) bool {
	for _, item := range items {
		if !item.Status.Terminal() {
			return true
		}
	}
	return false
}

func (s *trackerService) publishEvent(ctx context.Context, typeCode string, payload map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.New(typeCode, payload)); err != nil {
		s.logger.Warn("tracker", "failed to publish event", map[string]interface{}{
			"event": typeCode,
			"error": err.Error(),
		})
	}
}
