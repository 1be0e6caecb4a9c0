package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"github.com/robfig/cron/v3"

	"jobby-engine/internal/domain"
	"jobby-engine/internal/store"
)

type SettingsHandler struct {
	Store     *store.Store
	Scheduler Rescheduler
}

func (h SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, s)
}

// Put saves the new settings and, when the cron schedule changed, swaps the
// scheduler over to it.
func (h SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var s domain.Settings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	if err := validateSettings(s); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid_settings", err.Error())
		return
	}

	prev, err := h.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if err := h.Store.SaveSettings(r.Context(), s); err != nil {
		writeError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}

	if h.Scheduler != nil && s.CronSchedule != prev.CronSchedule {
		if err := h.Scheduler.Restart(s.CronSchedule); err != nil {
			writeError(w, r, http.StatusInternalServerError, "scheduler_error", err.Error())
			return
		}
	}
	writeJSON(w, s)
}

func validateSettings(s domain.Settings) error {
	switch s.ScoringMode {
	case "", "fixed", "rules":
	default:
		return fmt.Errorf("scoringMode must be fixed or rules")
	}
	switch s.DatePosted {
	case "", "all", "today", "3days", "week", "month":
	default:
		return fmt.Errorf("datePosted must be all, today, 3days, week or month")
	}
	if s.MinScore < 0 {
		return fmt.Errorf("minScore must be >= 0")
	}
	if s.ExpiryDays < 0 {
		return fmt.Errorf("expiryDays must be >= 0")
	}
	if s.NumPages < 0 || s.NumPages > 20 {
		return fmt.Errorf("numPages must be between 0 and 20")
	}
	if s.CronSchedule != "" {
		if _, err := cron.ParseStandard(s.CronSchedule); err != nil {
			return fmt.Errorf("cronSchedule: %v", err)
		}
	}
	for i, rule := range s.RuleTable {
		if rule.Pattern == "" {
			return fmt.Errorf("ruleTable[%d]: pattern is required", i)
		}
		if _, err := regexp.Compile("(?i)" + rule.Pattern); err != nil {
			return fmt.Errorf("ruleTable[%d]: %v", i, err)
		}
		switch rule.Effect {
		case "", "add", "penalize":
		default:
			return fmt.Errorf("ruleTable[%d]: effect must be add or penalize", i)
		}
	}
	return nil
}
