// Package http provides http transport for entries
package http

import (
	stdhttp "net/http"
	"strconv"

	"jmnedict/internal/modkit/httpkit"
	perr "jmnedict/internal/platform/errors"
	"jmnedict/internal/services/api/entries/domain"
	svc "jmnedict/internal/services/api/entries/service"
)

// Register mounts entries endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.GetQuery[domain.ListInput](r, "/", h.list)
	httpkit.Get(r, "/{seq}", h.get)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /entries Entries entriesList
// @Summary List entries
// @Tags Entries
// @Produce json
// @Param offset query int false "matches to skip"
// @Param limit query int false "page size"
// @Param q query string false "search text"
// @Param lang query string false "gloss language"
// @Param type query string false "name types"
// @Success 200 {array} domain.Summary "ok"
// @Failure 400 {object} phttp.Envelope "invalid query"
// @Router /entries [get]
func (h *handlers) list(r *stdhttp.Request, in domain.ListInput) (any, error) {
	res, err := h.svc.List(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.List(res.Items, httpkit.Page{
		Offset: res.Offset,
		Limit:  res.Limit,
		Count:  len(res.Items),
		More:   res.More,
	}), nil
}

// swagger:route GET /entries/{seq} Entries entriesGet
// @Summary One entry by sequence number
// @Tags Entries
// @Produce json
// @Param seq path int true "ent_seq"
// @Success 200 {object} jmnedict.Entry "ok"
// @Failure 404 {object} phttp.Envelope "no such entry"
// @Router /entries/{seq} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	raw := httpkit.Param(r, "seq")
	seq, err := strconv.Atoi(raw)
	if err != nil {
		return nil, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "seq: must be a whole number"), "seq")
	}
	return h.svc.Get(r.Context(), seq)
}
