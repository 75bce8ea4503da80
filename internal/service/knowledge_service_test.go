package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"realty-agent-be/internal/constant"
	"realty-agent-be/internal/dto"
	"realty-agent-be/internal/mapper"
	"realty-agent-be/internal/pkg/serverutils"
	"realty-agent-be/pkg/sensay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKnowledgeService(gw sensay.API) (IKnowledgeService, *fakeTracker, *fakeSubmissionRepo, *fakeInvalidationPublisher) {
	tracker := &fakeTracker{}
	submissions := &fakeSubmissionRepo{}
	publisher := &fakeInvalidationPublisher{}
	svc := NewKnowledgeService(
		&fakeProvider{gw: gw, userID: "agent_test"},
		tracker,
		submissions,
		publisher,
		nil,
		mapper.NewKnowledgeMapper(),
		nopLogger{},
	)
	return svc, tracker, submissions, publisher
}

func TestAddTextRejectsEmptyContent(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "empty", content: ""},
		{name: "spaces", content: "   "},
		{name: "whitespace mix", content: " \n\t "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &fakeGateway{}
			svc, _, _, publisher := newTestKnowledgeService(gw)

			_, err := svc.AddText(context.Background(), "rep-1", &dto.AddTextKnowledgeRequest{Content: tc.content})

			var validationErr *serverutils.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Fields, "content")
			assert.Zero(t, gw.addTextCalls.Load(), "empty content must not reach the platform")
			assert.Empty(t, publisher.published())
		})
	}
}

func TestAddTextTrimsAndRecords(t *testing.T) {
	var submittedText string
	gw := &fakeGateway{
		addTextFn: func(ctx context.Context, replicaID, text, title string) (*sensay.KnowledgeItem, error) {
			submittedText = text
			return &sensay.KnowledgeItem{ID: 7, Type: "text", Status: sensay.StatusNew, Title: title}, nil
		},
	}
	svc, _, submissions, publisher := newTestKnowledgeService(gw)

	resp, err := svc.AddText(context.Background(), "rep-1", &dto.AddTextKnowledgeRequest{
		Content: "  neighborhood guide \n",
		Title:   "Guide",
	})
	require.NoError(t, err)

	assert.Equal(t, "neighborhood guide", submittedText)
	assert.Equal(t, int64(7), resp.ItemID)
	assert.Equal(t, []string{"rep-1"}, publisher.published())

	rows, err := submissions.FindByReplica(context.Background(), "rep-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, constant.KnowledgeKindText, rows[0].Kind)
	assert.Equal(t, int64(7), rows[0].RemoteId)
}

func TestAddListingDocumentRoundTrip(t *testing.T) {
	var submittedText, submittedTitle string
	gw := &fakeGateway{
		addTextFn: func(ctx context.Context, replicaID, text, title string) (*sensay.KnowledgeItem, error) {
			submittedText = text
			submittedTitle = title
			return &sensay.KnowledgeItem{ID: 11, Type: "text", Status: sensay.StatusNew, Title: title}, nil
		},
	}
	svc, _, _, _ := newTestKnowledgeService(gw)

	_, err := svc.AddListing(context.Background(), "rep-1", &dto.PropertyListingRequest{
		Address:        "12 Harbor View Dr",
		Price:          "450000.50",
		Bedrooms:       "3",
		Bathrooms:      "2.5",
		SquareFootage:  "1800",
		Description:    "Waterfront townhouse with a private dock.",
		VirtualTourURL: "https://tours.example.com/12-harbor",
		PhotoURLs:      "https://img.example.com/a.jpg, https://img.example.com/b.jpg ,",
	})
	require.NoError(t, err)

	assert.Equal(t, "Property Listing: 12 Harbor View Dr", submittedTitle)

	// The submitted text must parse back into the identical document.
	var doc dto.PropertyListingDocument
	require.NoError(t, json.Unmarshal([]byte(submittedText), &doc))
	assert.Equal(t, "12 Harbor View Dr", doc.Address)
	assert.Equal(t, 450000.50, doc.Price)
	assert.Equal(t, 3, doc.Bedrooms)
	assert.Equal(t, 2.5, doc.Bathrooms)
	assert.Equal(t, 1800, doc.SquareFootage)
	assert.Equal(t, []string{"https://img.example.com/a.jpg", "https://img.example.com/b.jpg"}, doc.PhotoURLs)
	assert.True(t, strings.Contains(submittedText, "\n"), "document should be indented for citability")
}

func TestAddListingFieldCoercionFailures(t *testing.T) {
	testCases := []struct {
		name      string
		mutate    func(req *dto.PropertyListingRequest)
		wantField string
	}{
		{
			name:      "price not numeric",
			mutate:    func(req *dto.PropertyListingRequest) { req.Price = "ask me" },
			wantField: "price",
		},
		{
			name:      "bedrooms fractional",
			mutate:    func(req *dto.PropertyListingRequest) { req.Bedrooms = "2.5" },
			wantField: "bedrooms",
		},
		{
			name:      "square footage not numeric",
			mutate:    func(req *dto.PropertyListingRequest) { req.SquareFootage = "big" },
			wantField: "square_footage",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := &dto.PropertyListingRequest{
				Address:     "1 Main St",
				Price:       "100000",
				Description: "A perfectly ordinary house.",
			}
			tc.mutate(req)

			gw := &fakeGateway{}
			svc, _, _, _ := newTestKnowledgeService(gw)

			_, err := svc.AddListing(context.Background(), "rep-1", req)

			var validationErr *serverutils.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Fields, tc.wantField)
			assert.Zero(t, gw.addTextCalls.Load())
		})
	}
}

func TestAddFileNegotiationFailureSkipsTransfer(t *testing.T) {
	gw := &fakeGateway{
		requestUploadFn: func(ctx context.Context, replicaID, filename, title string) (string, error) {
			return "", sensay.ErrNoSignedURL
		},
	}
	svc, _, _, publisher := newTestKnowledgeService(gw)

	_, err := svc.AddFile(context.Background(), "rep-1", "brochure.pdf", "application/pdf", "", strings.NewReader("pdf bytes"))

	var uploadErr *sensay.UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, sensay.UploadPhaseNegotiate, uploadErr.Phase)
	assert.True(t, errors.Is(err, sensay.ErrNoSignedURL))
	assert.Zero(t, gw.uploadCalls.Load(), "no bytes may be sent without a signed URL")
	assert.Empty(t, publisher.published())
}

func TestAddFileTransferFailure(t *testing.T) {
	gw := &fakeGateway{
		uploadFn: func(ctx context.Context, signedURL, contentType string, body io.Reader) error {
			return &sensay.APIError{StatusCode: 500, Message: "storage unavailable"}
		},
	}
	svc, _, _, publisher := newTestKnowledgeService(gw)

	_, err := svc.AddFile(context.Background(), "rep-1", "brochure.pdf", "application/pdf", "", strings.NewReader("pdf bytes"))

	var uploadErr *sensay.UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, sensay.UploadPhaseTransfer, uploadErr.Phase)
	assert.True(t, sensay.IsRemoteError(err))
	assert.Empty(t, publisher.published())
}

func TestAddFileDefaultsTitleToFilename(t *testing.T) {
	var negotiatedTitle string
	gw := &fakeGateway{
		requestUploadFn: func(ctx context.Context, replicaID, filename, title string) (string, error) {
			negotiatedTitle = title
			return "https://uploads.example.com/slot", nil
		},
	}
	svc, _, _, publisher := newTestKnowledgeService(gw)

	resp, err := svc.AddFile(context.Background(), "rep-1", "brochure.pdf", "application/pdf", "", strings.NewReader("pdf bytes"))
	require.NoError(t, err)

	assert.Equal(t, "brochure.pdf", negotiatedTitle)
	assert.Equal(t, "brochure.pdf", resp.Title)
	assert.Equal(t, []string{"rep-1"}, publisher.published())
}

func TestDeletePublishesInvalidation(t *testing.T) {
	gw := &fakeGateway{}
	svc, _, _, publisher := newTestKnowledgeService(gw)

	require.NoError(t, svc.Delete(context.Background(), "rep-1", 42))
	assert.Equal(t, []string{"rep-1"}, publisher.published())
}

func TestSnapshotFetchesOnceWhenCold(t *testing.T) {
	gw := &fakeGateway{}
	svc, tracker, _, _ := newTestKnowledgeService(gw)

	_, err := svc.Snapshot(context.Background(), "rep-1")
	require.NoError(t, err)

	_, refreshed := tracker.calls()
	assert.Equal(t, []string{"rep-1"}, refreshed)

	// Warm snapshot: no second fetch.
	_, err = svc.Snapshot(context.Background(), "rep-1")
	require.NoError(t, err)
	_, refreshed = tracker.calls()
	assert.Len(t, refreshed, 1)
}

func TestSubmitWithoutCredentials(t *testing.T) {
	svc := NewKnowledgeService(
		&fakeProvider{err: sensay.ErrMissingSecret},
		&fakeTracker{},
		&fakeSubmissionRepo{},
		&fakeInvalidationPublisher{},
		nil,
		mapper.NewKnowledgeMapper(),
		nopLogger{},
	)

	_, err := svc.AddText(context.Background(), "rep-1", &dto.AddTextKnowledgeRequest{Content: "hello"})
	assert.ErrorIs(t, err, sensay.ErrMissingSecret)
}
