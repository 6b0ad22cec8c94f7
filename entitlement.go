package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"slideforge/export"
)

// PlanEntitlement records which export formats a subscription plan may use.
type PlanEntitlement struct {
	Plan    string   `json:"plan"`
	Formats []string `json:"formats"`
}

type entitlementFileData struct {
	Plans map[string]*PlanEntitlement `json:"plans"`
}

// EntitlementStore manages the plan-to-format gate evaluated once before an
// export runs. The engine itself has no knowledge of plans.
type EntitlementStore struct {
	mu       sync.RWMutex
	filePath string
	plans    map[string]*PlanEntitlement
}

// NewEntitlementStore creates a store backed by the given JSON file.
func NewEntitlementStore(filePath string) *EntitlementStore {
	return &EntitlementStore{
		filePath: filePath,
		plans:    make(map[string]*PlanEntitlement),
	}
}

// Load reads the entitlement file. A missing file leaves the store empty
// (every plan allowed); a corrupt file resets the store and reports.
func (s *EntitlementStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filePath == "" {
		return nil
	}
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read entitlement file: %w", err)
	}

	var file entitlementFileData
	if err := json.Unmarshal(data, &file); err != nil {
		s.plans = make(map[string]*PlanEntitlement)
		return fmt.Errorf("failed to parse entitlement file: %w", err)
	}
	if file.Plans == nil {
		file.Plans = make(map[string]*PlanEntitlement)
	}
	s.plans = file.Plans
	return nil
}

// SetPlan registers or replaces one plan's allowances.
func (s *EntitlementStore) SetPlan(p *PlanEntitlement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[p.Plan] = p
}

// CheckPermission reports whether the plan may export the format. An
// unknown plan with no configured entitlements is allowed everything; a
// configured plan is restricted to its listed formats.
func (s *EntitlementStore) CheckPermission(plan string, format export.Format) (allowed bool, reason string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.plans) == 0 {
		return true, ""
	}
	p, ok := s.plans[plan]
	if !ok {
		return false, fmt.Sprintf("unknown plan %q", plan)
	}
	for _, f := range p.Formats {
		if export.Format(f) == format {
			return true, ""
		}
	}
	return false, fmt.Sprintf("plan %q does not include %s export", plan, format)
}
