package todo

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"todo-ai-backend/internal/ai"
	"todo-ai-backend/internal/analytics"
	"todo-ai-backend/internal/auth"
	"todo-ai-backend/internal/metrics"
)

// AllDoneMessage is served by the HTTP layer when the user has tasks but
// every one of them is completed; the AI core is not invoked.
const AllDoneMessage = "All tasks completed! Enjoy your day or plan ahead for tomorrow."

type Handler struct {
	store *Store
	ai    *ai.Service
	db    *sql.DB // analytics only
}

func NewHandler(store *Store, aiSvc *ai.Service, db *sql.DB) *Handler {
	return &Handler{store: store, ai: aiSvc, db: db}
}

// Collection handles /api/todo (list + create).
func (h *Handler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item handles /api/todo/{id} and /api/todo/{id}/completed, plus the two
// AI routes under /api/todo/ai/.
func (h *Handler) Item(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/todo/")

	switch rest {
	case "ai/daily-summary":
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.dailySummary(w, r)
		return
	case "ai/update-priorities":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.updatePriorities(w, r)
		return
	}

	idStr, tail, _ := strings.Cut(rest, "/")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	switch {
	case tail == "" && r.Method == http.MethodDelete:
		h.delete(w, r, id)
	case tail == "completed" && r.Method == http.MethodPut:
		h.setCompleted(w, r, id)
	case r.Method == http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	tasks, err := h.store.ListByUser(r.Context(), uid)
	if err != nil {
		http.Error(w, "db query error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tasks)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Task string `json:"task"`
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	text := strings.TrimSpace(body.Task)
	if text == "" {
		http.Error(w, "task is required", http.StatusBadRequest)
		return
	}

	due, err := parseDueDate(body.Date)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	// New tasks get a freshly scored priority, synchronously.
	priority := h.ai.ScoreTask(r.Context(), text, due)

	task, err := h.store.Create(r.Context(), uid, text, due, priority)
	if err != nil {
		http.Error(w, "db insert error", http.StatusInternalServerError)
		return
	}

	analytics.Log(r.Context(), h.db, analytics.Envelope{}, "task_created", map[string]any{
		"priority":     priority,
		"has_due_date": due != nil,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(task)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id int) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	err := h.store.Delete(r.Context(), uid, id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "db delete error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setCompleted(w http.ResponseWriter, r *http.Request, id int) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	// Explicit boolean sets the flag; absent body toggles it.
	var body struct {
		Completed *bool `json:"completed"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	task, err := h.store.SetCompleted(r.Context(), uid, id, body.Completed)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "db update error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(task)
}

func (h *Handler) dailySummary(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	tasks, err := h.store.ListByUser(r.Context(), uid)
	if err != nil {
		http.Error(w, "db query error", http.StatusInternalServerError)
		return
	}

	// Everything done -> answer here, skip the model entirely.
	if len(tasks) > 0 && allCompleted(tasks) {
		analytics.Log(r.Context(), h.db, analytics.Envelope{}, "daily_summary_requested", map[string]any{
			"pending": 0,
		})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"summary": AllDoneMessage})
		return
	}

	summary := h.ai.DailySummary(r.Context(), toInputs(tasks))

	analytics.Log(r.Context(), h.db, analytics.Envelope{}, "daily_summary_requested", map[string]any{
		"pending": countPending(tasks),
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"summary": summary})
}

func (h *Handler) updatePriorities(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	tasks, err := h.store.ListIncompleteByUser(r.Context(), uid)
	if err != nil {
		http.Error(w, "db query error", http.StatusInternalServerError)
		return
	}

	priorities := h.ai.DistributePriorities(r.Context(), toInputs(tasks))

	for i, t := range tasks {
		if err := h.store.UpdatePriority(r.Context(), uid, t.ID, priorities[i]); err != nil {
			http.Error(w, "db update error", http.StatusInternalServerError)
			return
		}
	}
	metrics.PriorityUpdates.Add(float64(len(tasks)))

	analytics.Log(r.Context(), h.db, analytics.Envelope{}, "priorities_updated", map[string]any{
		"updated_count": len(tasks),
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message":      "Priorities updated successfully",
		"updatedCount": len(tasks),
	})
}

func toInputs(tasks []Task) []ai.TaskInput {
	inputs := make([]ai.TaskInput, len(tasks))
	for i, t := range tasks {
		in := ai.TaskInput{
			Text:      t.Text,
			DueDate:   t.DueDate,
			Completed: t.Completed,
		}
		if t.AIPriority != nil {
			in.Priority = *t.AIPriority
		}
		inputs[i] = in
	}
	return inputs
}

func allCompleted(tasks []Task) bool {
	for _, t := range tasks {
		if !t.Completed {
			return false
		}
	}
	return true
}

func countPending(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// parseDueDate accepts RFC3339 instants or plain calendar dates.
func parseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
