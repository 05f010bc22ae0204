package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/examix/examix/internal/batch"
	"github.com/examix/examix/internal/docx"
	"github.com/examix/examix/internal/exam"
	"github.com/examix/examix/internal/matrix"
	"github.com/examix/examix/internal/prefs"
	"github.com/examix/examix/internal/review"
	"github.com/examix/examix/internal/segment"
	"github.com/examix/examix/internal/storage"
	"github.com/examix/examix/internal/variant"
)

// Deps carries everything the handlers need.
type Deps struct {
	Prefs        *prefs.Store
	Blobs        storage.BlobStore
	Batches      *batch.Store
	Reviewer     review.Reviewer
	Log          *zap.SugaredLogger
	BundlePrefix string
	Parallelism  int
}

type questionSummary struct {
	Label   string            `json:"label"`
	Section string            `json:"section"`
	Type    exam.QuestionType `json:"type"`
	Valid   bool              `json:"valid"`
}

type validateResponse struct {
	Questions []questionSummary      `json:"questions"`
	Issues    []exam.ValidationIssue `json:"issues"`
}

// POST /exams/validate (multipart: file=exam.docx)
func ValidateExamHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pkg, ok := openUpload(w, r)
		if !ok {
			return
		}
		res, err := variant.Inspect(pkg)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, summarize(res))
	}
}

type generateResponse struct {
	BatchID   string                 `json:"batch_id"`
	Codes     []int                  `json:"codes"`
	BundleKey string                 `json:"bundle_key"`
	Issues    []exam.ValidationIssue `json:"issues"`
}

// POST /exams/generate (multipart: file + count/start_code/shuffle_* fields).
// Outstanding error-severity issues block generation unless force=true.
func GenerateHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pkg, ok := openUpload(w, r)
		if !ok {
			return
		}

		stored, err := deps.Prefs.Load(r.Context())
		if err != nil {
			stored = prefs.Defaults()
		}
		opts := variant.Options{
			Count:       formInt(r, "count", 4),
			StartCode:   formInt(r, "start_code", stored.NextCode),
			Parallelism: deps.Parallelism,
			Mix: exam.MixOptions{
				ShuffleQuestions: formBool(r, "shuffle_questions", true),
				ShuffleOptions:   formBool(r, "shuffle_options", true),
			},
			Header: headerFromForm(r, stored.Header),
		}

		res, err := variant.Inspect(pkg)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if hasErrors(res.Issues) && !formBool(r, "force", false) {
			writeJSON(w, http.StatusUnprocessableEntity, summarize(res))
			return
		}

		variants, m, err := variant.GenerateBatch(pkg, opts)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		bundle, err := matrix.BuildBundle(deps.BundlePrefix, variants, m, matrix.CSV{})
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}

		id := uuid.NewString()
		key := "bundles/" + id + ".zip"
		if _, err := deps.Blobs.Put(key, bytes.NewReader(bundle)); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}

		codes := make([]int, 0, len(variants))
		for _, v := range variants {
			codes = append(codes, v.Code)
		}
		deps.Batches.Put(batch.Record{
			ID:        id,
			CreatedAt: time.Now(),
			Codes:     codes,
			Issues:    res.Issues,
			BundleKey: key,
		})

		stored.Header = opts.Header
		stored.NextCode = opts.StartCode + opts.Count
		if err := deps.Prefs.Save(r.Context(), stored); err != nil {
			deps.Log.Warnw("save preferences", "err", err)
		}

		go runReview(deps, id, res.Questions)

		deps.Log.Infow("batch generated", "batch", id, "variants", len(variants), "start_code", opts.StartCode)
		writeJSON(w, http.StatusOK, generateResponse{
			BatchID:   id,
			Codes:     codes,
			BundleKey: key,
			Issues:    res.Issues,
		})
	}
}

// runReview is fire-and-forget: a late or failed response only shapes the
// advisory string, never the batch.
func runReview(deps Deps, batchID string, questions []*exam.QuestionBlock) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()
	texts := make([]string, 0, len(questions))
	for _, q := range questions {
		texts = append(texts, q.Text)
	}
	commentary, err := deps.Reviewer.Review(ctx, texts)
	if err != nil {
		deps.Log.Infow("review skipped", "batch", batchID, "reason", err)
	}
	deps.Batches.SetAdvisory(batchID, review.Advisory(commentary, err))
}

// GET /batches/{batchID}
func GetBatchHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := deps.Batches.Get(chi.URLParam(r, "batchID"))
		if !ok {
			http.Error(w, "batch not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// GET /batches
func ListBatchesHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.Batches.List())
	}
}

// GET /batches/{batchID}/bundle
func DownloadBundleHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "batchID")
		rec, ok := deps.Batches.Get(id)
		if !ok {
			http.Error(w, "batch not found", http.StatusNotFound)
			return
		}
		rc, err := deps.Blobs.Get(rec.BundleKey)
		if err != nil {
			http.Error(w, "bundle not found", http.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", `attachment; filename="`+id+`.zip"`)
		_, _ = io.Copy(w, rc)
	}
}

// GET /prefs
func GetPrefsHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := deps.Prefs.Load(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// PUT /prefs
func PutPrefsHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p prefs.Prefs
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := deps.Prefs.Save(r.Context(), p); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func openUpload(w http.ResponseWriter, r *http.Request) (*docx.Package, bool) {
	f, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file required", http.StatusBadRequest)
		return nil, false
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return nil, false
	}
	pkg, err := docx.Open(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return pkg, true
}

func summarize(res segment.Result) validateResponse {
	out := validateResponse{Issues: res.Issues}
	for _, q := range res.Questions {
		out.Questions = append(out.Questions, questionSummary{
			Label:   q.Label,
			Section: q.Section,
			Type:    q.Type,
			Valid:   q.Valid,
		})
	}
	if out.Issues == nil {
		out.Issues = []exam.ValidationIssue{}
	}
	return out
}

func hasErrors(issues []exam.ValidationIssue) bool {
	for _, is := range issues {
		if is.Severity == exam.SeverityError {
			return true
		}
	}
	return false
}

func headerFromForm(r *http.Request, def exam.HeaderConfig) exam.HeaderConfig {
	h := exam.HeaderConfig{
		Enabled:     formBool(r, "header_enabled", def.Enabled),
		Institution: formOr(r, "institution", def.Institution),
		Title:       formOr(r, "title", def.Title),
		Subject:     formOr(r, "subject", def.Subject),
		Duration:    formOr(r, "duration", def.Duration),
		Year:        formOr(r, "year", def.Year),
		FooterText:  formOr(r, "footer_text", def.FooterText),
	}
	return h
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func formOr(r *http.Request, key, def string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return def
}

func formInt(r *http.Request, key string, def int) int {
	v := r.FormValue(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func formBool(r *http.Request, key string, def bool) bool {
	switch r.FormValue(key) {
	case "1", "true", "TRUE", "yes":
		return true
	case "0", "false", "FALSE", "no":
		return false
	default:
		return def
	}
}
