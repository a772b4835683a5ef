package identity

import (
	"fmt"

	"github.com/workforce/backend/internal/domain/shared"
)

// ModuleID identifies a dashboard module that can be toggled per role.
type ModuleID string

const (
	ModuleAttendance ModuleID = "attendance_dashboard"
	ModuleTeams      ModuleID = "teams_dashboard"
)

// DefaultModule is assumed when an access check names no module.
const DefaultModule = ModuleAttendance

// FeatureID identifies a feature inside a module.
type FeatureID string

// Attendance dashboard features.
const (
	FeatureDashboard     FeatureID = "dashboard"
	FeatureOnTime        FeatureID = "on_time"
	FeatureWorkHour      FeatureID = "work_hour"
	FeatureWorkHourLost  FeatureID = "work_hour_lost"
	FeatureLeaveAnalysis FeatureID = "leave_analysis"
	FeatureUpload        FeatureID = "upload"
	FeatureBatches       FeatureID = "batches"
	FeatureExport        FeatureID = "export"
)

// Teams dashboard features.
const (
	FeatureUserActivity    FeatureID = "user_activity"
	FeatureUploadActivity  FeatureID = "upload_activity"
	FeatureActivityBatches FeatureID = "activity_batches"
	FeatureAppActivity     FeatureID = "app_activity"
	FeatureUploadApp       FeatureID = "upload_app"
	FeatureAppBatches      FeatureID = "app_batches"
	FeatureEmployeeList    FeatureID = "employee_list"
	FeatureLicenseEntry    FeatureID = "license_entry"
	FeatureLicenseEdit     FeatureID = "license_edit"
)

var moduleFeatures = map[ModuleID][]FeatureID{
	ModuleAttendance: {
		FeatureDashboard, FeatureOnTime, FeatureWorkHour, FeatureWorkHourLost,
		FeatureLeaveAnalysis, FeatureUpload, FeatureBatches, FeatureExport,
	},
	ModuleTeams: {
		FeatureUserActivity, FeatureUploadActivity, FeatureActivityBatches,
		FeatureAppActivity, FeatureUploadApp, FeatureAppBatches,
		FeatureEmployeeList, FeatureLicenseEntry, FeatureLicenseEdit, FeatureExport,
	},
}

// KnownModules returns the closed set of modules.
func KnownModules() []ModuleID {
	return []ModuleID{ModuleAttendance, ModuleTeams}
}

// ModuleFeatures returns the feature set a module supports.
func ModuleFeatures(m ModuleID) []FeatureID {
	features := moduleFeatures[m]
	out := make([]FeatureID, len(features))
	copy(out, features)
	return out
}

// ValidateModule checks that the module is part of the closed set.
func ValidateModule(m ModuleID) error {
	if _, ok := moduleFeatures[m]; !ok {
		return shared.NewDomainError("UNKNOWN_MODULE", fmt.Sprintf("unknown module %q", m))
	}
	return nil
}

// ValidateFeature checks that the feature belongs to the module.
func ValidateFeature(m ModuleID, f FeatureID) error {
	if err := ValidateModule(m); err != nil {
		return err
	}
	for _, known := range moduleFeatures[m] {
		if known == f {
			return nil
		}
	}
	return shared.NewDomainError("UNKNOWN_FEATURE",
		fmt.Sprintf("feature %q does not belong to module %q", f, m))
}

// ModulePermission is a role's grant for a single module. Features
// hold per-feature toggles; a feature absent from the map is denied.
type ModulePermission struct {
	Enabled  bool               `json:"enabled"`
	Features map[FeatureID]bool `json:"features"`
}

// HasFeature reports whether the feature toggle is on. The module's
// Enabled flag is checked separately by the access gate.
func (p ModulePermission) HasFeature(f FeatureID) bool {
	return p.Features[f]
}

// PermissionMap maps modules to their grants for a role.
type PermissionMap map[ModuleID]ModulePermission

// Clone returns a deep copy so callers cannot mutate shared defaults.
func (pm PermissionMap) Clone() PermissionMap {
	out := make(PermissionMap, len(pm))
	for mod, perm := range pm {
		features := make(map[FeatureID]bool, len(perm.Features))
		for f, v := range perm.Features {
			features[f] = v
		}
		out[mod] = ModulePermission{Enabled: perm.Enabled, Features: features}
	}
	return out
}

// Validate rejects modules and features outside the closed sets.
func (pm PermissionMap) Validate() error {
	for mod, perm := range pm {
		if err := ValidateModule(mod); err != nil {
			return err
		}
		for f := range perm.Features {
			if err := ValidateFeature(mod, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func allFeaturesOn(m ModuleID) ModulePermission {
	features := make(map[FeatureID]bool, len(moduleFeatures[m]))
	for _, f := range moduleFeatures[m] {
		features[f] = true
	}
	return ModulePermission{Enabled: true, Features: features}
}

// DefaultAdminPermissions grants every module and every feature.
func DefaultAdminPermissions() PermissionMap {
	pm := make(PermissionMap, len(moduleFeatures))
	for m := range moduleFeatures {
		pm[m] = allFeaturesOn(m)
	}
	return pm
}

// DefaultUserPermissions grants read-only attendance dashboards and
// leaves the teams dashboard disabled.
func DefaultUserPermissions() PermissionMap {
	return PermissionMap{
		ModuleAttendance: {
			Enabled: true,
			Features: map[FeatureID]bool{
				FeatureDashboard:     true,
				FeatureOnTime:        true,
				FeatureWorkHour:      true,
				FeatureWorkHourLost:  true,
				FeatureLeaveAnalysis: true,
			},
		},
		ModuleTeams: {
			Enabled:  false,
			Features: map[FeatureID]bool{},
		},
	}
}
