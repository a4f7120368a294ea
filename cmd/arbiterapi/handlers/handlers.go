/*
Package handlers implements a read mostly JSON API over the ledger state of
an arbiter node.
*/
package handlers

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/client"
	arbiterd "github.com/iov-one/arbiter/cmd/arbiterd/app"
	"github.com/iov-one/arbiter/errors"
	"github.com/iov-one/arbiter/x/docsign"
	"github.com/iov-one/arbiter/x/sigs"
	"github.com/sirupsen/logrus"
)

// Ledger is the node access used by the handlers. It is implemented by
// client.Client.
type Ledger interface {
	ChainID() (string, error)
	Height() (int64, error)
	AbciQuery(path string, data []byte) (client.AbciResponse, error)
	GetClerk(id arbiter.Address) (*docsign.Clerk, error)
	GetStagedClerk(id arbiter.Address) (*docsign.Clerk, error)
	GetDocument(id arbiter.Address) (*docsign.Document, error)
	GetContent(id arbiter.Address) (*docsign.Content, error)
	BroadcastTx(tx arbiter.Tx) client.BroadcastTxResponse
}

var _ Ledger = (*client.Client)(nil)

const (
	paginationMaxItems = 50
	maxTxSize          = 1 << 20
	maxContentSize     = 32 << 20
)

// API serves the ledger state over HTTP.
type API struct {
	ledger Ledger
	log    *logrus.Entry
}

// NewAPI returns an API reading from the given ledger.
func NewAPI(ledger Ledger, log *logrus.Entry) *API {
	return &API{ledger: ledger, log: log}
}

// Router returns a router with all API endpoints registered.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(a.logRequests)
	r.Use(middleware.Recoverer)
	a.RegisterRoutes(r)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		JSONErr(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
	return r
}

// RegisterRoutes registers the API endpoints on the given router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Get("/info", a.info)
	r.Get("/clerks/{authority}", a.clerk)
	r.Get("/documents", a.documents)
	r.Get("/documents/{id}", a.document)
	r.Post("/documents/{id}/verify", a.verifyContent)
	r.Post("/tx", a.submitTx)
}

func (a *API) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		a.log.WithFields(logrus.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  ww.Status(),
			"took":    time.Since(start),
			"request": middleware.GetReqID(r.Context()),
		}).Debug("request served")
	})
}

func (a *API) info(w http.ResponseWriter, r *http.Request) {
	chainID, err := a.ledger.ChainID()
	if err != nil {
		a.fail(w, err)
		return
	}
	height, err := a.ledger.Height()
	if err != nil {
		a.fail(w, err)
		return
	}
	JSONResp(w, http.StatusOK, struct {
		Version string `json:"version"`
		ChainID string `json:"chain_id"`
		Height  int64  `json:"height"`
	}{
		Version: arbiter.Version(),
		ChainID: chainID,
		Height:  height,
	})
}

// ClerkResponse describes the clerk of an authority. Staged is set while
// the clerk is being upgraded.
type ClerkResponse struct {
	Address   arbiter.Address    `json:"address"`
	Clerk     *docsign.ClerkView `json:"clerk,omitempty"`
	Remaining int                `json:"remaining"`
	StagedAt  arbiter.Address    `json:"staged_at"`
	Staged    *docsign.ClerkView `json:"staged,omitempty"`
}

func (a *API) clerk(w http.ResponseWriter, r *http.Request) {
	authority, err := arbiter.ParseAddress(chi.URLParam(r, "authority"))
	if err != nil {
		JSONErr(w, http.StatusBadRequest, "authority must be a hex encoded address.")
		return
	}
	clerkID, err := docsign.ClerkAddress(authority)
	if err != nil {
		a.fail(w, err)
		return
	}
	stagedID, err := docsign.StagedClerkAddress(authority)
	if err != nil {
		a.fail(w, err)
		return
	}

	resp := ClerkResponse{Address: clerkID, StagedAt: stagedID}
	clerk, err := a.ledger.GetClerk(clerkID)
	if err != nil {
		a.fail(w, err)
		return
	}
	if clerk != nil {
		v := clerk.View()
		resp.Clerk = &v
		resp.Remaining = clerk.Remaining()
	}
	staged, err := a.ledger.GetStagedClerk(stagedID)
	if err != nil {
		a.fail(w, err)
		return
	}
	if staged != nil {
		v := staged.View()
		resp.Staged = &v
	}
	if resp.Clerk == nil && resp.Staged == nil {
		JSONErr(w, http.StatusNotFound, "authority has no clerk.")
		return
	}
	JSONResp(w, http.StatusOK, resp)
}

// DocumentResponse is a document together with its content reference.
type DocumentResponse struct {
	Address  arbiter.Address      `json:"address"`
	Document docsign.DocumentView `json:"document"`
	Content  *docsign.Content     `json:"content,omitempty"`
}

func (a *API) document(w http.ResponseWriter, r *http.Request) {
	id, err := arbiter.ParseAddress(chi.URLParam(r, "id"))
	if err != nil {
		JSONErr(w, http.StatusBadRequest, "document ID must be a hex encoded address.")
		return
	}
	doc, err := a.ledger.GetDocument(id)
	if err != nil {
		a.fail(w, err)
		return
	}
	if doc == nil {
		JSONErr(w, http.StatusNotFound, "document not found.")
		return
	}
	content, err := a.ledger.GetContent(id)
	if err != nil {
		a.fail(w, err)
		return
	}
	JSONResp(w, http.StatusOK, DocumentResponse{
		Address:  id,
		Document: doc.View(),
		Content:  content,
	})
}

// documents lists documents in key order. The offset query parameter is the
// hex address of the last document of the previous page.
func (a *API) documents(w http.ResponseWriter, r *http.Request) {
	var offset arbiter.Address
	if o := r.URL.Query().Get("offset"); o != "" {
		var err error
		if offset, err = arbiter.ParseAddress(o); err != nil {
			JSONErr(w, http.StatusBadRequest, "offset must be a hex encoded address.")
			return
		}
	}

	resp, err := a.ledger.AbciQuery("/documents?"+arbiter.PrefixQueryMod, nil)
	if err != nil {
		a.fail(w, err)
		return
	}

	objects := make([]DocumentResponse, 0, paginationMaxItems)
	for _, m := range resp.Models {
		id := arbiter.Address(m.Key[len("documents:"):])
		if offset != nil && string(id) <= string(offset) {
			continue
		}
		var doc docsign.Document
		if err := doc.Unmarshal(m.Value); err != nil {
			a.fail(w, err)
			return
		}
		objects = append(objects, DocumentResponse{Address: id, Document: doc.View()})
		if len(objects) == paginationMaxItems {
			break
		}
	}
	JSONResp(w, http.StatusOK, struct {
		Objects []DocumentResponse `json:"objects"`
		Height  int64              `json:"height"`
	}{
		Objects: objects,
		Height:  resp.Height,
	})
}

// verifyContent checks the request body against the digest registered for
// the document.
func (a *API) verifyContent(w http.ResponseWriter, r *http.Request) {
	id, err := arbiter.ParseAddress(chi.URLParam(r, "id"))
	if err != nil {
		JSONErr(w, http.StatusBadRequest, "document ID must be a hex encoded address.")
		return
	}
	content, err := a.ledger.GetContent(id)
	if err != nil {
		a.fail(w, err)
		return
	}
	if content == nil || content.Digest == "" {
		JSONErr(w, http.StatusNotFound, "document has no registered digest.")
		return
	}
	raw, err := ioutil.ReadAll(io.LimitReader(r.Body, maxContentSize))
	if err != nil {
		JSONErr(w, http.StatusBadRequest, "cannot read content.")
		return
	}
	err = docsign.VerifyContent(content.Digest, raw)
	JSONResp(w, http.StatusOK, struct {
		Digest string `json:"digest"`
		Valid  bool   `json:"valid"`
	}{
		Digest: content.Digest,
		Valid:  err == nil,
	})
}

// submitTx broadcasts a signed, binary serialized transaction.
func (a *API) submitTx(w http.ResponseWriter, r *http.Request) {
	raw, err := ioutil.ReadAll(io.LimitReader(r.Body, maxTxSize))
	if err != nil {
		JSONErr(w, http.StatusBadRequest, "cannot read transaction.")
		return
	}
	tx, err := arbiterd.TxDecoder(raw)
	if err != nil {
		JSONErr(w, http.StatusBadRequest, "cannot decode transaction.")
		return
	}
	res := a.ledger.BroadcastTx(tx)
	if err := res.IsError(); err != nil {
		a.fail(w, err)
		return
	}
	JSONResp(w, http.StatusOK, struct {
		Address arbiter.Address `json:"address"`
		Height  int64           `json:"height"`
	}{
		Address: res.Data(),
		Height:  res.Response.Height,
	})
}

// fail writes the error, mapping ledger errors to HTTP status codes.
// Unexpected errors are logged and not exposed to the client.
func (a *API) fail(w http.ResponseWriter, err error) {
	code := StatusCode(err)
	if code == http.StatusInternalServerError {
		a.log.WithError(err).Error("request failed")
		JSONErr(w, code, http.StatusText(code))
		return
	}
	JSONErr(w, code, err.Error())
}

// StatusCode returns the HTTP status that best describes the error.
func StatusCode(err error) int {
	switch {
	case errors.ErrNotFound.Is(err):
		return http.StatusNotFound
	case errors.ErrUnauthorized.Is(err):
		return http.StatusUnauthorized
	case errors.ErrInput.Is(err), errors.ErrMsg.Is(err), errors.ErrEmpty.Is(err), sigs.ErrInvalidSequence.Is(err):
		return http.StatusBadRequest
	case errors.ErrDuplicate.Is(err), errors.ErrState.Is(err):
		return http.StatusConflict
	}
	if code, _ := errors.ABCIInfo(err, false); code >= docsign.ErrInvalidCapacity.ABCICode() && code <= docsign.ErrInvalidUpgradeAmount.ABCICode() {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// JSONResp writes the content as JSON encoded response.
func JSONResp(w http.ResponseWriter, code int, content interface{}) {
	b, err := json.MarshalIndent(content, "", "\t")
	if err != nil {
		code = http.StatusInternalServerError
		b = []byte(`{"errors":["Internal Server Error"]}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	_, _ = w.Write(b)
}

// JSONErr writes a single error as JSON encoded response.
func JSONErr(w http.ResponseWriter, code int, errText string) {
	JSONResp(w, code, struct {
		Errors []string `json:"errors"`
	}{
		Errors: []string{errText},
	})
}
