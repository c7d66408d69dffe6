// 包 api：看板 JSON 接口；路由挂载在主入口的 API 前缀下
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"povertymap/internal/dashboard"
	"povertymap/internal/dataset"
	"povertymap/internal/logger"
	"povertymap/internal/store"
)

const maxBody = 1 << 20

// BuildRoutes：构建 API 路由；st 为 nil 时统计接口返回 404
func BuildRoutes(ctl *dashboard.Controller, st *store.Store) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/options", func(w http.ResponseWriter, r *http.Request) {
		c := ctl.Context()
		writeJSON(w, http.StatusOK, optionsResponse{RaceGroups: c.Poverty.RaceGroups(), Default: c.DefaultRaceGroup})
	})

	r.Get("/initial", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ctl.Initial())
	})

	r.Post("/submit", func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if !decode(w, r, &req) {
			return
		}
		ev := dashboard.Submit{Criteria: dataset.Criteria{
			RaceGroup:           req.RaceGroup,
			PopulationThreshold: req.PopulationThreshold.v,
			PovertyPctThreshold: req.PovertyPctThreshold.v,
		}}
		next, u, err := ctl.Dispatch(r.Context(), req.State, ev)
		if err != nil {
			writeError(w, err)
			return
		}
		if st != nil {
			if err := st.Incr(r.Context(), store.KindSubmit); err != nil {
				logger.L().Error("stats_incr_error", "kind", "submit", "err", err)
			}
		}
		writeJSON(w, http.StatusOK, eventResponse{State: next, StateName: next.Name(), Update: u})
	})

	r.Post("/select", func(w http.ResponseWriter, r *http.Request) {
		var req selectRequest
		if !decode(w, r, &req) {
			return
		}
		next, u, err := ctl.Dispatch(r.Context(), req.State, dashboard.Select{Zip: req.Zipcode})
		if err != nil {
			writeError(w, err)
			return
		}
		if st != nil {
			if err := st.Incr(r.Context(), store.KindSelect); err != nil {
				logger.L().Error("stats_incr_error", "kind", "select", "err", err)
			}
			if err := st.RecordSelect(r.Context(), next.Selected); err != nil {
				logger.L().Error("stats_zip_error", "zip", next.Selected, "err", err)
			}
		}
		writeJSON(w, http.StatusOK, eventResponse{State: next, StateName: next.Name(), Update: u})
	})

	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			http.NotFound(w, r)
			return
		}
		t, err := st.GetTotals(r.Context())
		if err != nil {
			logger.L().Error("stats_totals_error", "err", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "stats unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, t)
	})

	r.Get("/stats/zips", func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			http.NotFound(w, r)
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		top, err := st.TopZips(r.Context(), limit)
		if err != nil {
			logger.L().Error("stats_zips_error", "err", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "stats unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, top)
	})

	return r
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, dataset.ErrUnknownRaceGroup) || errors.Is(err, dashboard.ErrEmptyZip) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	logger.L().Error("dispatch_error", "err", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
