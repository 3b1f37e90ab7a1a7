// Package ingest orchestrates the ingestion flows: uploaded documents,
// mailbox sync and knowledge extracted from conversations.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"legal-assistant/config"
	"legal-assistant/internal/core/dates"
	"legal-assistant/internal/core/document"
	coreingest "legal-assistant/internal/core/ingest"
	"legal-assistant/internal/core/knowledge"
	"legal-assistant/internal/core/mailbox"
	"legal-assistant/internal/core/normalize"
	"legal-assistant/internal/core/source"
	"legal-assistant/internal/database/model"
	"legal-assistant/internal/storage"
	"legal-assistant/pkg/apperror/status"
	"legal-assistant/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Extractor finds new knowledge in a conversation transcript.
type Extractor interface {
	Extract(ctx context.Context, thread, transcript string) (string, bool, error)
}

// Service runs the ingestion flows against a sink, an archive and a
// repository of ingestion records.
type Service struct {
	cfg       config.Config
	sink      coreingest.Sink
	store     storage.Store
	repo      Repository
	mailbox   mailbox.Source
	extractor Extractor
	validate  *validator.Validate
	now       func() time.Time
}

// Deps are the collaborators of a Service.
type Deps struct {
	Sink      coreingest.Sink
	Store     storage.Store
	Repo      Repository
	Mailbox   mailbox.Source
	Extractor Extractor
}

func NewService(cfg config.Config, deps Deps) *Service {
	return &Service{
		cfg:       cfg,
		sink:      deps.Sink,
		store:     deps.Store,
		repo:      deps.Repo,
		mailbox:   deps.Mailbox,
		extractor: deps.Extractor,
		validate:  validator.New(),
		now:       time.Now,
	}
}

// DocumentRequest is an uploaded PDF with its metadata form.
type DocumentRequest struct {
	Filename string
	Data     []byte
	Meta     document.Metadata
}

// DocumentReport describes the outcome of one document ingestion.
type DocumentReport struct {
	DocID           int64                 `json:"doc_id"`
	Status          string                `json:"status"`
	Pages           int                   `json:"pages"`
	ChunksRendered  int                   `json:"chunks_rendered"`
	ChunksAvailable int                   `json:"chunks_available"`
	Truncated       bool                  `json:"truncated"`
	Issues          int                   `json:"issues"`
	ArtifactPath    string                `json:"artifact_path"`
	ArtifactURL     string                `json:"artifact_url,omitempty"`
	Sink            coreingest.Result     `json:"sink"`
	ImportantDates  []dates.ImportantDate `json:"important_dates"`
}

// IngestDocument archives the upload, composes the metadata-annotated
// artifact, hands it to the sink and records the outcome.
func (s *Service) IngestDocument(ctx context.Context, req DocumentRequest) (DocumentReport, error) {
	if req.Meta.UploadTime.IsZero() {
		req.Meta.UploadTime = s.now()
	}
	if err := s.validate.Struct(req.Meta); err != nil {
		return DocumentReport{}, status.New(status.InvalidMetadata, err)
	}
	if len(req.Data) == 0 {
		return DocumentReport{}, status.New(status.MissingParams, errors.New("empty file"))
	}
	log := logger.WithModule(config.ModuleIngest).WithField("file", req.Filename)

	original, err := s.store.Put(ctx, "documents", req.Filename, "application/pdf", req.Data)
	if err != nil {
		return DocumentReport{}, status.New(status.IngestArchiveFailed, err)
	}
	doc := &model.Document{
		Kind:         model.KindDocument,
		Source:       req.Filename,
		OriginalPath: &original.Path,
		SHA256:       &original.SHA256,
		DocType:      &req.Meta.DocType,
		Parties:      &req.Meta.Parties,
		Jurisdiction: &req.Meta.Jurisdiction,
		Status:       model.StatusProcessing,
	}
	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		return DocumentReport{}, status.New(status.IngestPersistFailed, err)
	}
	log = log.WithField("doc_id", doc.ID)

	text, err := s.pdfText(ctx, original.Path)
	if err != nil {
		log.WithField("error", err).Warn("ingest: text extraction failed, using marker")
		text = source.ExtractionFailed(req.Filename)
	}

	profile := s.cfg.Ingest.Document
	artifact, chunking := document.ComposeText(document.DocumentHeader(req.Meta), text,
		document.LayoutFromConfig(s.cfg.Ingest.Layout, profile), profile.ChunkSize, profile.MaxChunks)
	s.logComposition(log.WithField("pipeline", "document"), artifact, chunking)

	found := dates.Extract(req.Meta.ImportantDates)
	report := DocumentReport{
		DocID:           doc.ID,
		Pages:           artifact.PageCount(),
		ChunksRendered:  len(chunking.Chunks),
		ChunksAvailable: chunking.Available,
		Truncated:       chunking.Truncated(),
		Issues:          len(artifact.Issues),
		ImportantDates:  found,
	}
	if err := s.repo.SaveDates(ctx, doc.ID, found); err != nil {
		log.WithField("error", err).Warn("ingest: saving important dates failed")
	}

	name := strings.TrimSuffix(filepath.Base(req.Filename), filepath.Ext(req.Filename)) + "_enhanced.pdf"
	res, path, err := s.deliver(ctx, doc.ID, name, artifact)
	report.Sink = res
	report.ArtifactPath = path
	report.Status = s.finish(ctx, doc.ID, outcome{
		artifactPath: path,
		pages:        report.Pages,
		rendered:     report.ChunksRendered,
		available:    report.ChunksAvailable,
		res:          res,
		err:          err,
	})
	if err != nil {
		return report, err
	}
	if url, lerr := s.store.URL(ctx, path); lerr != nil {
		log.WithField("error", lerr).Warn("ingest: artifact link failed")
	} else {
		report.ArtifactURL = url
	}
	if !res.OK() {
		return report, status.New(status.IngestSinkIncomplete, fmt.Errorf("sink reported %s", res.Status))
	}
	log.WithFields(logger.Fields{"pages": report.Pages, "chunks": report.ChunksRendered}).Info("ingest: document ready")
	return report, nil
}

// Document returns the ingestion record with the given id.
func (s *Service) Document(ctx context.Context, id int64) (*model.Document, error) {
	doc, err := s.repo.GetDocument(ctx, id)
	if errors.Is(err, ErrDocumentNotFound) {
		return nil, status.New(status.DocumentNotFound, err)
	}
	if err != nil {
		return nil, status.New(status.IngestPersistFailed, err)
	}
	return doc, nil
}

// SyncReport counts the outcome of a mailbox sync.
type SyncReport struct {
	Emails      int `json:"emails"`
	Ingested    int `json:"ingested"`
	Attachments int `json:"attachments"`
	Failed      int `json:"failed"`
}

// SyncMailbox composes every unseen email into an artifact and ingests it
// together with its indexable attachments. A failing email is counted and
// skipped.
func (s *Service) SyncMailbox(ctx context.Context) (SyncReport, error) {
	log := logger.WithModule(config.ModuleMail)
	emails, err := s.mailbox.Unseen(ctx)
	if err != nil && len(emails) == 0 {
		return SyncReport{}, status.New(status.MailboxFetchFailed, err)
	}
	if err != nil {
		log.WithField("error", err).Warn("mailbox: fetch ended early, syncing what arrived")
	}

	var report SyncReport
	for _, e := range emails {
		report.Emails++
		if e.Err != nil {
			report.Failed++
			continue
		}
		if err := s.ingestEmail(ctx, e); err != nil {
			log.WithFields(logger.Fields{"uid": e.UID, "error": err}).Warn("mailbox: email not ingested")
			report.Failed++
		} else {
			report.Ingested++
		}
		for _, att := range e.IndexableAttachments() {
			if err := s.ingestAttachment(ctx, att); err != nil {
				log.WithFields(logger.Fields{"uid": e.UID, "attachment": att.Filename, "error": err}).Warn("mailbox: attachment not ingested")
				report.Failed++
				continue
			}
			report.Attachments++
		}
	}
	log.WithFields(logger.Fields{
		"emails":      report.Emails,
		"ingested":    report.Ingested,
		"attachments": report.Attachments,
		"failed":      report.Failed,
	}).Info("mailbox: sync done")
	return report, nil
}

func (s *Service) ingestEmail(ctx context.Context, e mailbox.Email) error {
	doc := &model.Document{Kind: model.KindEmail, Source: clipSource(e.Subject), Status: model.StatusProcessing}
	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		return err
	}
	profile := s.cfg.Ingest.Email
	artifact, chunking := document.ComposeText(document.EmailHeader(e.From, e.To, e.Subject, e.Date), e.Body(),
		document.LayoutFromConfig(s.cfg.Ingest.Layout, profile), profile.ChunkSize, profile.MaxChunks)
	s.logComposition(logger.WithModule(config.ModuleMail).WithField("uid", e.UID), artifact, chunking)

	name := fmt.Sprintf("email_%d_%s.pdf", e.UID, e.Date.UTC().Format("20060102T150405"))
	res, path, err := s.deliver(ctx, doc.ID, name, artifact)
	s.finish(ctx, doc.ID, outcome{
		artifactPath: path,
		pages:        artifact.PageCount(),
		rendered:     len(chunking.Chunks),
		available:    chunking.Available,
		res:          res,
		err:          err,
	})
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("sink reported %s", res.Status)
	}
	return nil
}

func (s *Service) ingestAttachment(ctx context.Context, att mailbox.Attachment) error {
	obj, err := s.store.Put(ctx, "attachments", att.Filename, att.ContentType, att.Data)
	if err != nil {
		return err
	}
	doc := &model.Document{
		Kind:         model.KindAttachment,
		Source:       clipSource(att.Filename),
		OriginalPath: &obj.Path,
		SHA256:       &obj.SHA256,
		Status:       model.StatusProcessing,
	}
	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		return err
	}

	var passages []document.Passage
	switch strings.ToLower(filepath.Ext(att.Filename)) {
	case ".pdf":
		if text, err := s.pdfText(ctx, obj.Path); err == nil {
			passages = textPassages(text, s.cfg.Ingest.Document.ChunkSize)
		}
	case ".txt", ".csv":
		passages = textPassages(string(att.Data), s.cfg.Ingest.Document.ChunkSize)
	}

	res, err := s.sink.Ingest(ctx, coreingest.File{
		DocID:       doc.ID,
		Name:        filepath.Base(att.Filename),
		ContentType: att.ContentType,
		Data:        att.Data,
		Passages:    passages,
	})
	if err == nil && len(passages) > 0 {
		if perr := s.repo.SaveChunks(ctx, doc.ID, passages); perr != nil {
			logger.WithModule(config.ModuleIngest).WithField("error", perr).Warn("ingest: saving chunks failed")
		}
	}
	s.finish(ctx, doc.ID, outcome{rendered: len(passages), available: len(passages), res: res, err: err})
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("sink reported %s", res.Status)
	}
	return nil
}

// KnowledgeReport describes the outcome of a knowledge ingestion.
type KnowledgeReport struct {
	Found  bool              `json:"found"`
	DocID  int64             `json:"doc_id,omitempty"`
	Sink   coreingest.Result `json:"sink"`
	Length int               `json:"length"`
}

// IngestKnowledge extracts user-provided knowledge from a transcript and,
// when there is any, ingests it as a markdown document.
func (s *Service) IngestKnowledge(ctx context.Context, thread string, messages []knowledge.Message) (KnowledgeReport, error) {
	if strings.TrimSpace(thread) == "" || len(messages) == 0 {
		return KnowledgeReport{}, status.New(status.MissingParams, errors.New("thread_name and messages are required"))
	}
	text, ok, err := s.extractor.Extract(ctx, thread, knowledge.Transcript(messages))
	if err != nil {
		return KnowledgeReport{}, status.New(status.KnowledgeLLMFailed, err)
	}
	if !ok {
		return KnowledgeReport{Found: false}, nil
	}

	now := s.now()
	md := knowledge.Markdown(thread, text, now)
	name := knowledge.FileName(thread, now)
	obj, err := s.store.Put(ctx, "knowledge", name, "text/markdown", []byte(md))
	if err != nil {
		return KnowledgeReport{}, status.New(status.IngestArchiveFailed, err)
	}
	doc := &model.Document{
		Kind:         model.KindKnowledge,
		Source:       clipSource(thread),
		ArtifactPath: &obj.Path,
		SHA256:       &obj.SHA256,
		Status:       model.StatusProcessing,
	}
	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		return KnowledgeReport{}, status.New(status.IngestPersistFailed, err)
	}

	passages := []document.Passage{{Part: 1, Text: md}}
	res, err := s.sink.Ingest(ctx, coreingest.File{
		DocID:       doc.ID,
		Name:        name,
		ContentType: "text/markdown",
		Data:        []byte(md),
		Passages:    passages,
	})
	s.finish(ctx, doc.ID, outcome{rendered: 1, available: 1, res: res, err: err})
	report := KnowledgeReport{Found: true, DocID: doc.ID, Sink: res, Length: len(text)}
	if err != nil {
		return report, status.New(status.IngestSinkFailed, err)
	}
	if !res.OK() {
		return report, status.New(status.IngestSinkIncomplete, fmt.Errorf("sink reported %s", res.Status))
	}
	if err := s.repo.SaveChunks(ctx, doc.ID, passages); err != nil {
		logger.WithModule(config.ModuleKnowledge).WithField("error", err).Warn("knowledge: saving chunks failed")
	}
	return report, nil
}

// deliver renders the artifact, archives it and hands it to the sink.
func (s *Service) deliver(ctx context.Context, docID int64, name string, artifact *document.Artifact) (coreingest.Result, string, error) {
	data, err := document.PDFBytes(artifact)
	if err != nil {
		return coreingest.Result{Status: coreingest.StatusFailed}, "", status.New(status.IngestRenderFailed, err)
	}
	obj, err := s.store.Put(ctx, "artifacts", name, document.ContentTypePDF, data)
	if err != nil {
		return coreingest.Result{Status: coreingest.StatusFailed}, "", status.New(status.IngestArchiveFailed, err)
	}

	res, err := s.sink.Ingest(ctx, coreingest.File{
		DocID:       docID,
		Name:        name,
		ContentType: document.ContentTypePDF,
		Data:        data,
		Passages:    artifact.Passages,
	})
	if err != nil {
		return res, obj.Path, status.New(status.IngestSinkFailed, err)
	}
	if err := s.repo.SaveChunks(ctx, docID, artifact.Passages); err != nil {
		logger.WithModule(config.ModuleIngest).WithFields(logger.Fields{"doc_id": docID, "error": err}).Warn("ingest: saving chunks failed")
	}
	return res, obj.Path, nil
}

// outcome is what finish writes back to a document row.
type outcome struct {
	artifactPath string
	pages        int
	rendered     int
	available    int
	res          coreingest.Result
	err          error
}

// finish records the final state of a document and returns its status.
func (s *Service) finish(ctx context.Context, docID int64, o outcome) string {
	st := model.StatusReady
	if o.err != nil || !o.res.OK() {
		st = model.StatusFailed
	}
	updates := map[string]interface{}{
		"status":           st,
		"pages":            o.pages,
		"chunks_rendered":  o.rendered,
		"chunks_available": o.available,
		"sink_status":      string(o.res.Status),
	}
	if o.artifactPath != "" {
		updates["artifact_path"] = o.artifactPath
	}
	if o.res.BatchID != "" {
		updates["batch_id"] = o.res.BatchID
	}
	if o.err != nil {
		updates["error"] = o.err.Error()
	}
	if uerr := s.repo.UpdateDocument(ctx, docID, updates); uerr != nil {
		logger.Error(uerr, "%v: update document %d failed", config.ModuleIngest, docID)
	}
	return st
}

func (s *Service) pdfText(ctx context.Context, path string) (string, error) {
	tmp, cleanup, err := source.FetchToLocalTemp(ctx, path)
	if err != nil {
		return "", err
	}
	defer cleanup()
	return source.PDFText(tmp)
}

func (s *Service) logComposition(log *logrus.Entry, artifact *document.Artifact, chunking document.Chunking) {
	if chunking.Truncated() {
		log.WithFields(logger.Fields{
			"kept":    len(chunking.Chunks),
			"dropped": chunking.Dropped(),
		}).Warn("ingest: content truncated to the chunk limit")
	}
	for _, issue := range artifact.Issues {
		log.WithField("issue", issue.Error()).Warn("ingest: render issue")
	}
}

// textPassages splits plain text into passages for text-indexing sinks.
func textPassages(text string, size int) []document.Passage {
	chunking := document.Split(normalize.Sanitize(text), size, 0)
	out := make([]document.Passage, 0, len(chunking.Chunks))
	for _, ch := range chunking.Chunks {
		if strings.TrimSpace(ch.Text.String()) == "" {
			continue
		}
		out = append(out, document.Passage{Part: ch.Index + 1, Text: ch.Text.String()})
	}
	return out
}

const sourceLimit = 255

func clipSource(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(untitled)"
	}
	if r := []rune(s); len(r) > sourceLimit {
		s = string(r[:sourceLimit])
	}
	return s
}
