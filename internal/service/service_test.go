package service

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"realty-agent-be/internal/entity"
	"realty-agent-be/pkg/sensay"

	"github.com/google/uuid"
)

// fakeGateway implements sensay.API with overridable behavior per method and
// call counters, so tests can assert which remote operations were reached.
type fakeGateway struct {
	createUserFn    func(ctx context.Context, id string) (*sensay.User, error)
	listReplicasFn  func(ctx context.Context) ([]sensay.Replica, error)
	getReplicaFn    func(ctx context.Context, id string) (*sensay.Replica, error)
	createReplicaFn func(ctx context.Context, input sensay.CreateReplicaInput) (*sensay.Replica, error)
	sendChatFn      func(ctx context.Context, replicaID, content string) (string, error)
	listKnowledgeFn func(ctx context.Context, replicaID string) ([]sensay.KnowledgeItem, error)
	addTextFn       func(ctx context.Context, replicaID, text, title string) (*sensay.KnowledgeItem, error)
	addURLFn        func(ctx context.Context, replicaID, url, title string) (*sensay.KnowledgeItem, error)
	requestUploadFn func(ctx context.Context, replicaID, filename, title string) (string, error)
	uploadFn        func(ctx context.Context, signedURL, contentType string, body io.Reader) error
	deleteItemFn    func(ctx context.Context, replicaID string, itemID int64) error

	addTextCalls       atomic.Int64
	listKnowledgeCalls atomic.Int64
	uploadCalls        atomic.Int64
	chatCalls          atomic.Int64
}

var _ sensay.API = &fakeGateway{}

func (f *fakeGateway) CreateUser(ctx context.Context, id string) (*sensay.User, error) {
	if f.createUserFn != nil {
		return f.createUserFn(ctx, id)
	}
	return &sensay.User{ID: id}, nil
}

func (f *fakeGateway) ListReplicas(ctx context.Context) ([]sensay.Replica, error) {
	if f.listReplicasFn != nil {
		return f.listReplicasFn(ctx)
	}
	return nil, nil
}

func (f *fakeGateway) GetReplica(ctx context.Context, id string) (*sensay.Replica, error) {
	if f.getReplicaFn != nil {
		return f.getReplicaFn(ctx, id)
	}
	return &sensay.Replica{UUID: id}, nil
}

func (f *fakeGateway) CreateReplica(ctx context.Context, input sensay.CreateReplicaInput) (*sensay.Replica, error) {
	if f.createReplicaFn != nil {
		return f.createReplicaFn(ctx, input)
	}
	return &sensay.Replica{
		UUID:             uuid.NewString(),
		Name:             input.Name,
		Slug:             input.Slug,
		ShortDescription: input.ShortDescription,
		Introduction:     input.Greeting,
	}, nil
}

func (f *fakeGateway) SendChatMessage(ctx context.Context, replicaID, content string) (string, error) {
	f.chatCalls.Add(1)
	if f.sendChatFn != nil {
		return f.sendChatFn(ctx, replicaID, content)
	}
	return "ok", nil
}

func (f *fakeGateway) ListKnowledgeBase(ctx context.Context, replicaID string) ([]sensay.KnowledgeItem, error) {
	f.listKnowledgeCalls.Add(1)
	if f.listKnowledgeFn != nil {
		return f.listKnowledgeFn(ctx, replicaID)
	}
	return nil, nil
}

func (f *fakeGateway) AddTextKnowledge(ctx context.Context, replicaID, text, title string) (*sensay.KnowledgeItem, error) {
	f.addTextCalls.Add(1)
	if f.addTextFn != nil {
		return f.addTextFn(ctx, replicaID, text, title)
	}
	return &sensay.KnowledgeItem{ID: 1, Type: "text", Status: sensay.StatusNew, Title: title}, nil
}

func (f *fakeGateway) AddURLKnowledge(ctx context.Context, replicaID, url, title string) (*sensay.KnowledgeItem, error) {
	if f.addURLFn != nil {
		return f.addURLFn(ctx, replicaID, url, title)
	}
	return &sensay.KnowledgeItem{ID: 2, Type: "website", Status: sensay.StatusNew, Title: title}, nil
}

func (f *fakeGateway) RequestFileUpload(ctx context.Context, replicaID, filename, title string) (string, error) {
	if f.requestUploadFn != nil {
		return f.requestUploadFn(ctx, replicaID, filename, title)
	}
	return "https://uploads.example.com/slot", nil
}

func (f *fakeGateway) UploadToSignedURL(ctx context.Context, signedURL, contentType string, body io.Reader) error {
	f.uploadCalls.Add(1)
	if f.uploadFn != nil {
		return f.uploadFn(ctx, signedURL, contentType, body)
	}
	return nil
}

func (f *fakeGateway) DeleteKnowledgeItem(ctx context.Context, replicaID string, itemID int64) error {
	if f.deleteItemFn != nil {
		return f.deleteItemFn(ctx, replicaID, itemID)
	}
	return nil
}

// fakeProvider hands out a fixed gateway, or an error when unconfigured.
type fakeProvider struct {
	gw     sensay.API
	err    error
	userID string
}

func (p *fakeProvider) Gateway() (sensay.API, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.gw, nil
}

func (p *fakeProvider) UserID() string { return p.userID }

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// fakeSubmissionRepo records audit rows in memory.
type fakeSubmissionRepo struct {
	mu   sync.Mutex
	rows []entity.Submission
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, submission *entity.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *submission)
	return nil
}

func (r *fakeSubmissionRepo) FindByReplica(ctx context.Context, replicaID string, limit, offset int) ([]entity.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Submission
	for _, row := range r.rows {
		if row.ReplicaId == replicaID {
			out = append(out, row)
		}
	}
	return out, nil
}

// fakeInvalidationPublisher records which replicas were announced.
type fakeInvalidationPublisher struct {
	mu       sync.Mutex
	replicas []string
}

func (p *fakeInvalidationPublisher) PublishKnowledgeSubmitted(ctx context.Context, replicaID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replicas = append(p.replicas, replicaID)
	return nil
}

func (p *fakeInvalidationPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.replicas))
	copy(out, p.replicas)
	return out
}

// fakeTracker records invalidations and refreshes without any polling.
type fakeTracker struct {
	mu          sync.Mutex
	invalidated []string
	refreshed   []string
	snap        *TrackedSnapshot
	refreshErr  error
}

func (t *fakeTracker) Snapshot(replicaID string) (*TrackedSnapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snap == nil {
		return nil, false
	}
	return t.snap, true
}

func (t *fakeTracker) Refresh(ctx context.Context, replicaID string) (*TrackedSnapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refreshed = append(t.refreshed, replicaID)
	if t.refreshErr != nil {
		return nil, t.refreshErr
	}
	if t.snap == nil {
		t.snap = &TrackedSnapshot{}
	}
	return t.snap, nil
}

func (t *fakeTracker) Invalidate(replicaID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.invalidated = append(t.invalidated, replicaID)
}

func (t *fakeTracker) Reset() {}
func (t *fakeTracker) Stop()  {}

func (t *fakeTracker) calls() (invalidated, refreshed []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.invalidated...), append([]string(nil), t.refreshed...)
}

// fakeSettingRepo is an in-memory key/value store.
type fakeSettingRepo struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{values: make(map[string]string)}
}

func (r *fakeSettingRepo) Get(ctx context.Context, key string) (*entity.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.values[key]
	if !ok {
		return nil, nil
	}
	return &entity.Setting{Key: key, Value: value}, nil
}

func (r *fakeSettingRepo) Put(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}
