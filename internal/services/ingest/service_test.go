package ingest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"legal-assistant/config"
	"legal-assistant/internal/core/dates"
	"legal-assistant/internal/core/document"
	coreingest "legal-assistant/internal/core/ingest"
	"legal-assistant/internal/core/knowledge"
	"legal-assistant/internal/core/mailbox"
	"legal-assistant/internal/database/model"
	"legal-assistant/internal/storage"
	"legal-assistant/pkg/apperror/status"
	"legal-assistant/pkg/logger"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.SetOutput(io.Discard)
}

type fakeRepo struct {
	mu     sync.Mutex
	nextID int64
	docs   map[int64]*model.Document
	final  map[int64]map[string]interface{}
	chunks map[int64][]document.Passage
	dates  map[int64][]dates.ImportantDate
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:   map[int64]*model.Document{},
		final:  map[int64]map[string]interface{}{},
		chunks: map[int64][]document.Passage{},
		dates:  map[int64][]dates.ImportantDate{},
	}
}

func (r *fakeRepo) CreateDocument(_ context.Context, doc *model.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	doc.ID = r.nextID
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeRepo) GetDocument(_ context.Context, id int64) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

func (r *fakeRepo) UpdateDocument(_ context.Context, id int64, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.final[id] == nil {
		r.final[id] = map[string]interface{}{}
	}
	for k, v := range updates {
		r.final[id][k] = v
	}
	return nil
}

func (r *fakeRepo) SaveChunks(_ context.Context, docID int64, passages []document.Passage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks[docID] = passages
	return nil
}

func (r *fakeRepo) SaveDates(_ context.Context, docID int64, found []dates.ImportantDate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dates[docID] = found
	return nil
}

type fakeSink struct {
	files  []coreingest.File
	status coreingest.Status
	err    error
}

func (s *fakeSink) Ingest(_ context.Context, f coreingest.File) (coreingest.Result, error) {
	s.files = append(s.files, f)
	if s.err != nil {
		return coreingest.Result{Status: coreingest.StatusFailed}, s.err
	}
	st := s.status
	if st == "" {
		st = coreingest.StatusCompleted
	}
	return coreingest.Result{Status: st, BatchID: "vsfb_1"}, nil
}

type fakeMailbox struct {
	emails []mailbox.Email
	err    error
}

func (m fakeMailbox) Unseen(context.Context) ([]mailbox.Email, error) { return m.emails, m.err }

type fakeExtractor struct {
	text string
	ok   bool
	err  error
}

func (e fakeExtractor) Extract(context.Context, string, string) (string, bool, error) {
	return e.text, e.ok, e.err
}

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, deps Deps) (*Service, *fakeRepo, *fakeSink) {
	t.Helper()
	repo := newFakeRepo()
	sink, _ := deps.Sink.(*fakeSink)
	if sink == nil {
		sink = &fakeSink{}
	}
	deps.Sink = sink
	deps.Repo = repo
	deps.Store = storage.NewLocal(t.TempDir())
	s := NewService(config.Cfg, deps)
	s.now = func() time.Time { return fixedNow }
	return s, repo, sink
}

func samplePDF(t *testing.T, text string) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()
	pdf.Cell(40, 10, text)
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func codeOf(t *testing.T, err error) status.ErrorCode {
	t.Helper()
	var coded status.CodedError
	require.True(t, errors.As(err, &coded), "error %v carries no code", err)
	return coded.ErrorCode()
}

func validMeta() document.Metadata {
	return document.Metadata{
		DocType:        "Contract",
		Parties:        "Acme Corp, Beta LLC",
		Jurisdiction:   "Delaware",
		ImportantDates: "Filing deadline: 2023-12-15, Effective date: 2023-11-01",
		Summary:        "Supply agreement",
	}
}

func TestIngestDocument(t *testing.T) {
	t.Run("Should compose, deliver and record a document", func(t *testing.T) {
		s, repo, sink := newTestService(t, Deps{})

		report, err := s.IngestDocument(context.Background(), DocumentRequest{
			Filename: "lease.pdf",
			Data:     samplePDF(t, "Supply terms"),
			Meta:     validMeta(),
		})
		require.NoError(t, err)

		assert.Equal(t, model.StatusReady, report.Status)
		assert.EqualValues(t, 1, report.DocID)
		assert.Equal(t, 1, report.ChunksRendered)
		assert.Equal(t, 1, report.Pages)
		assert.Len(t, report.ImportantDates, 2)
		assert.True(t, report.Sink.OK())

		require.Len(t, sink.files, 1)
		f := sink.files[0]
		assert.Equal(t, "lease_enhanced.pdf", f.Name)
		assert.True(t, bytes.HasPrefix(f.Data, []byte("%PDF")))
		require.Len(t, f.Passages, 1)
		assert.True(t, strings.HasPrefix(f.Passages[0].Text, "LEGAL DOCUMENT METADATA:\nDocument Type: Contract"))
		assert.Contains(t, f.Passages[0].Text, "Upload Time: 2024-03-01T09:30:00Z")
		assert.Contains(t, f.Passages[0].Text, "Supply terms")

		assert.Equal(t, model.KindDocument, repo.docs[1].Kind)
		assert.Equal(t, model.StatusReady, repo.final[1]["status"])
		assert.Equal(t, "vsfb_1", repo.final[1]["batch_id"])
		assert.Equal(t, report.ArtifactPath, repo.final[1]["artifact_path"])
		assert.True(t, strings.HasSuffix(report.ArtifactPath, ".pdf"))
		assert.Equal(t, report.ArtifactPath, report.ArtifactURL)
		assert.Len(t, repo.chunks[1], 1)
		assert.Equal(t, "Filing deadline", repo.dates[1][0].Description)
	})

	t.Run("Should reject missing metadata", func(t *testing.T) {
		s, _, sink := newTestService(t, Deps{})
		meta := validMeta()
		meta.Parties = ""

		_, err := s.IngestDocument(context.Background(), DocumentRequest{Filename: "a.pdf", Data: []byte("x"), Meta: meta})
		assert.Equal(t, status.InvalidMetadata, codeOf(t, err))
		assert.Empty(t, sink.files)
	})

	t.Run("Should fall back to a marker when text cannot be extracted", func(t *testing.T) {
		s, _, sink := newTestService(t, Deps{})

		_, err := s.IngestDocument(context.Background(), DocumentRequest{Filename: "broken.pdf", Data: []byte("not a pdf"), Meta: validMeta()})
		require.NoError(t, err)
		require.Len(t, sink.files, 1)
		assert.Contains(t, sink.files[0].Passages[0].Text, "[Original document: broken.pdf - text extraction failed]")
	})

	t.Run("Should mark the document failed when the sink does not complete", func(t *testing.T) {
		s, repo, _ := newTestService(t, Deps{Sink: &fakeSink{status: coreingest.StatusFailed}})

		report, err := s.IngestDocument(context.Background(), DocumentRequest{Filename: "a.pdf", Data: samplePDF(t, "x"), Meta: validMeta()})
		assert.Equal(t, status.IngestSinkIncomplete, codeOf(t, err))
		assert.Equal(t, model.StatusFailed, report.Status)
		assert.Equal(t, model.StatusFailed, repo.final[1]["status"])
		assert.EqualValues(t, 1, report.DocID)
		assert.NotEmpty(t, repo.final[1]["artifact_path"])
	})

	t.Run("Should surface sink errors", func(t *testing.T) {
		s, repo, _ := newTestService(t, Deps{Sink: &fakeSink{err: errors.New("upstream down")}})

		_, err := s.IngestDocument(context.Background(), DocumentRequest{Filename: "a.pdf", Data: samplePDF(t, "x"), Meta: validMeta()})
		assert.Equal(t, status.IngestSinkFailed, codeOf(t, err))
		assert.Contains(t, repo.final[1]["error"], "upstream down")
	})
}

func TestDocument(t *testing.T) {
	s, _, _ := newTestService(t, Deps{})
	_, err := s.IngestDocument(context.Background(), DocumentRequest{Filename: "a.pdf", Data: samplePDF(t, "x"), Meta: validMeta()})
	require.NoError(t, err)

	doc, err := s.Document(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", doc.Source)

	_, err = s.Document(context.Background(), 42)
	assert.Equal(t, status.DocumentNotFound, codeOf(t, err))
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestSyncMailbox(t *testing.T) {
	good := mailbox.Email{
		UID:     7,
		From:    "alice@example.com",
		To:      "bob@example.com",
		Subject: "Lease renewal",
		Date:    fixedNow,
		HTML:    "<p>Please <b>renew</b> the lease.</p>",
		Attachments: []mailbox.Attachment{
			{Filename: "terms.txt", ContentType: "text/plain", Data: []byte("Term one. Term two.")},
			{Filename: "logo.png", ContentType: "image/png", Data: []byte("png")},
		},
	}
	broken := mailbox.Email{UID: 8, Err: errors.New("bad mime")}

	t.Run("Should ingest emails and attachments and count failures", func(t *testing.T) {
		s, repo, sink := newTestService(t, Deps{Mailbox: fakeMailbox{emails: []mailbox.Email{good, broken}}})

		report, err := s.SyncMailbox(context.Background())
		require.NoError(t, err)
		assert.Equal(t, SyncReport{Emails: 2, Ingested: 1, Attachments: 1, Failed: 1}, report)

		require.Len(t, sink.files, 2)
		assert.Equal(t, "email_7_20240301T093000.pdf", sink.files[0].Name)
		assert.True(t, strings.HasPrefix(sink.files[0].Passages[0].Text, "From: alice@example.com..."))
		assert.Contains(t, sink.files[0].Passages[0].Text, "Please renew the lease.")
		assert.Equal(t, "terms.txt", sink.files[1].Name)
		require.Len(t, sink.files[1].Passages, 1)
		assert.Equal(t, "Term one. Term two.", sink.files[1].Passages[0].Text)

		assert.Equal(t, model.KindEmail, repo.docs[1].Kind)
		assert.Equal(t, model.KindAttachment, repo.docs[2].Kind)
	})

	t.Run("Should fail when the mailbox cannot be read", func(t *testing.T) {
		s, _, _ := newTestService(t, Deps{Mailbox: fakeMailbox{err: errors.New("auth")}})
		_, err := s.SyncMailbox(context.Background())
		assert.Equal(t, status.MailboxFetchFailed, codeOf(t, err))
	})

	t.Run("Should keep going when one email is rejected by the sink", func(t *testing.T) {
		plain := mailbox.Email{UID: 9, Subject: "Hi", Date: fixedNow, Text: "hello"}
		s, _, _ := newTestService(t, Deps{
			Mailbox: fakeMailbox{emails: []mailbox.Email{plain, plain}},
			Sink:    &fakeSink{status: coreingest.StatusPending},
		})
		report, err := s.SyncMailbox(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, report.Failed)
		assert.Zero(t, report.Ingested)
	})
}

func TestIngestKnowledge(t *testing.T) {
	messages := []knowledge.Message{{Role: "user", Content: "The hearing moved to 2024-09-01."}}

	t.Run("Should ingest extracted knowledge as markdown", func(t *testing.T) {
		text := "**Date Corrections - Hearing**: The hearing moved to 2024-09-01 per the user."
		s, repo, sink := newTestService(t, Deps{Extractor: fakeExtractor{text: text, ok: true}})

		report, err := s.IngestKnowledge(context.Background(), "Lease dispute", messages)
		require.NoError(t, err)
		assert.True(t, report.Found)
		assert.EqualValues(t, 1, report.DocID)

		require.Len(t, sink.files, 1)
		assert.Equal(t, "knowledge-lease-dispute-20240301-093000.md", sink.files[0].Name)
		assert.Contains(t, string(sink.files[0].Data), text)
		assert.Equal(t, model.KindKnowledge, repo.docs[1].Kind)
	})

	t.Run("Should do nothing when there is no new knowledge", func(t *testing.T) {
		s, _, sink := newTestService(t, Deps{Extractor: fakeExtractor{}})
		report, err := s.IngestKnowledge(context.Background(), "t", messages)
		require.NoError(t, err)
		assert.False(t, report.Found)
		assert.Empty(t, sink.files)
	})

	t.Run("Should map extractor errors", func(t *testing.T) {
		s, _, _ := newTestService(t, Deps{Extractor: fakeExtractor{err: errors.New("rate limited")}})
		_, err := s.IngestKnowledge(context.Background(), "t", messages)
		assert.Equal(t, status.KnowledgeLLMFailed, codeOf(t, err))
	})

	t.Run("Should require a thread and messages", func(t *testing.T) {
		s, _, _ := newTestService(t, Deps{Extractor: fakeExtractor{}})
		_, err := s.IngestKnowledge(context.Background(), " ", nil)
		assert.Equal(t, status.MissingParams, codeOf(t, err))
	})
}

func TestBuildContentPreview(t *testing.T) {
	assert.Equal(t, "abc", buildContentPreview("\uFEFFa\x00bc", 10))
	assert.Equal(t, "ab", buildContentPreview("abcdef", 2))
}

func TestClipSource(t *testing.T) {
	assert.Equal(t, "(untitled)", clipSource("  "))
	assert.Len(t, []rune(clipSource(strings.Repeat("é", 300))), sourceLimit)
}
