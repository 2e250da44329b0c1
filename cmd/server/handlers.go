package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gvondra/StsfctryRecipes/internal/calc"
	"github.com/gvondra/StsfctryRecipes/internal/recipe"
	"github.com/gvondra/StsfctryRecipes/internal/store"
)

const maxBodyBytes = 1 << 20

type createRecipeRequest struct {
	Title          string   `json:"title"`
	ProductionRate *float64 `json:"productionRate"`
}

type updateRecipeRequest struct {
	Title          string   `json:"title"`
	ProductionRate *float64 `json:"productionRate"`
}

type dependencyRequest struct {
	ConsumptionRate float64 `json:"consumptionRate"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleRecipesList(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.store.LoadAll(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, recipes)
}

func (s *server) handleRecipeGet(w http.ResponseWriter, r *http.Request) {
	_, found, ok := s.loadRecipe(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, found)
}

func (s *server) handleRecipeText(w http.ResponseWriter, r *http.Request) {
	recipes, found, ok := s.loadRecipe(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := recipe.WriteDetail(&buf, recipes, found); err != nil {
		s.writeError(w, err)
		return
	}
	writeText(w, buf.Bytes())
}

func (s *server) handleRecipeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRecipeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	rate := 1.0
	if req.ProductionRate != nil {
		rate = *req.ProductionRate
	}

	var created recipe.Recipe
	err := s.edit(r, "add", func(recipes []recipe.Recipe) ([]recipe.Recipe, error) {
		updated, err := recipe.Add(recipes, req.Title, rate)
		if err != nil {
			return nil, err
		}
		created, _ = recipe.FindByTitle(updated, strings.TrimSpace(req.Title))
		return updated, nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/recipes/%d", created.ID))
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleRecipeUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updateRecipeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.editAndRespond(w, r, "update", id, func(recipes []recipe.Recipe) ([]recipe.Recipe, error) {
		return recipe.Update(recipes, id, recipe.Changes{Title: req.Title, ProductionRate: req.ProductionRate})
	})
}

func (s *server) handleDependencyAdd(w http.ResponseWriter, r *http.Request) {
	id, targetID, err := parseDependencyIDs(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req dependencyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.editAndRespond(w, r, "add_dependency", id, func(recipes []recipe.Recipe) ([]recipe.Recipe, error) {
		return recipe.AddDependency(recipes, id, targetID, req.ConsumptionRate)
	})
}

func (s *server) handleDependencyRemove(w http.ResponseWriter, r *http.Request) {
	id, targetID, err := parseDependencyIDs(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.editAndRespond(w, r, "remove_dependency", id, func(recipes []recipe.Recipe) ([]recipe.Recipe, error) {
		return recipe.RemoveDependency(recipes, id, targetID)
	})
}

func (s *server) handleCalc(w http.ResponseWriter, r *http.Request) {
	result, ok := s.calculate(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *server) handleCalcText(w http.ResponseWriter, r *http.Request) {
	result, ok := s.calculate(w, r)
	if !ok {
		return
	}
	writeText(w, []byte(result.String()))
}

func (s *server) calculate(w http.ResponseWriter, r *http.Request) (calc.Result, bool) {
	id, err := parseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return calc.Result{}, false
	}
	rate := calc.OwnRate()
	if raw := strings.TrimSpace(r.URL.Query().Get("rate")); raw != "" {
		value, err := parsePositiveFloat(raw, "rate")
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return calc.Result{}, false
		}
		rate = calc.RateOf(value)
	}

	recipes, err := s.store.LoadAll(r.Context())
	if err != nil {
		s.writeError(w, err)
		return calc.Result{}, false
	}
	result, err := calc.Propagate(recipes, id, rate)
	if err != nil {
		s.metrics.Calculation(outcome(err))
		s.writeError(w, err)
		return calc.Result{}, false
	}
	s.metrics.Calculation("ok")
	return result, true
}

func (s *server) loadRecipe(w http.ResponseWriter, r *http.Request) ([]recipe.Recipe, recipe.Recipe, bool) {
	id, err := parseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return nil, recipe.Recipe{}, false
	}
	recipes, err := s.store.LoadAll(r.Context())
	if err != nil {
		s.writeError(w, err)
		return nil, recipe.Recipe{}, false
	}
	found, ok := recipe.Find(recipes, id)
	if !ok {
		s.writeError(w, &recipe.NotFoundError{ID: id})
		return nil, recipe.Recipe{}, false
	}
	return recipes, found, true
}

// edit runs fn under the server lock and counts the outcome as op.
func (s *server) edit(r *http.Request, op string, fn store.EditFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := store.Edit(r.Context(), s.store, fn)
	s.metrics.Edit(op, outcome(err))
	if err == nil {
		s.log.WithField("op", op).Info("recipes updated")
	}
	return err
}

// editAndRespond applies fn and answers with recipe id as it was saved.
func (s *server) editAndRespond(w http.ResponseWriter, r *http.Request, op string, id int, fn store.EditFunc) {
	var saved recipe.Recipe
	err := s.edit(r, op, func(recipes []recipe.Recipe) ([]recipe.Recipe, error) {
		updated, err := fn(recipes)
		if err != nil {
			return nil, err
		}
		saved, _ = recipe.Find(updated, id)
		return updated, nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, saved)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, recipe.ErrRecipeNotFound):
		return "not_found"
	case errors.Is(err, recipe.ErrDuplicateRecipe):
		return "duplicate"
	case errors.Is(err, recipe.ErrInvalidRate), errors.Is(err, recipe.ErrInvalidTitle):
		return "invalid"
	case errors.Is(err, calc.ErrCycle):
		return "cycle"
	default:
		return "error"
	}
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	switch outcome(err) {
	case "not_found":
		writeJSONError(w, http.StatusNotFound, err.Error())
	case "duplicate":
		writeJSONError(w, http.StatusConflict, err.Error())
	case "invalid":
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case "cycle":
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.log.WithError(err).Error("request failed")
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func parseDependencyIDs(r *http.Request) (int, int, error) {
	id, err := parseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		return 0, 0, err
	}
	targetID, err := parseID(chi.URLParam(r, "targetID"), "targetID")
	if err != nil {
		return 0, 0, err
	}
	return id, targetID, nil
}

func parseID(raw, field string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", field)
	}
	return id, nil
}

func parsePositiveFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be numeric", field)
	}
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%s must be greater than 0", field)
	}
	return value, nil
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeJSON encodes v before any header is sent so an unencodable value, such
// as a non-finite rate, still gets a 500.
func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := encodeJSON(v)
	if err != nil {
		s.writeError(w, fmt.Errorf("encode response: %w", err))
		return
	}
	writeBody(w, status, body)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	body, err := encodeJSON(errorResponse{Error: message})
	if err != nil {
		http.Error(w, message, status)
		return
	}
	writeBody(w, status, body)
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeText(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
