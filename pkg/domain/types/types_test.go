package types_test

import (
	"testing"

	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestParseNotificationKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.NotificationKind
		wantErr bool
	}{
		{"info", "info", types.NotificationInfo, false},
		{"success", "success", types.NotificationSuccess, false},
		{"warning", "warning", types.NotificationWarning, false},
		{"error", "error", types.NotificationError, false},
		{"critical", "critical", types.NotificationCritical, false},
		{"legacy alert", "alert", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseNotificationKind(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.V(t, got).Equal(tt.want)
		})
	}
}

func TestNormalizeNotificationKind(t *testing.T) {
	gt.V(t, types.NormalizeNotificationKind("bogus")).Equal(types.NotificationInfo)
	gt.V(t, types.NormalizeNotificationKind(types.NotificationCritical)).Equal(types.NotificationCritical)
}

func TestNotificationKind_Urgent(t *testing.T) {
	gt.B(t, types.NotificationCritical.Urgent()).True()
	gt.B(t, types.NotificationError.Urgent()).True()
	gt.B(t, types.NotificationWarning.Urgent()).False()
	gt.B(t, types.NotificationInfo.Urgent()).False()
}

func TestScenarioID_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      types.ScenarioID
		wantErr bool
	}{
		{"builtin", types.ScenarioStaffBurnout, false},
		{"with hyphen", "fire-drill", false},
		{"with underscore", "Fire_Drill2", false},
		{"empty", "", true},
		{"space", "fire drill", true},
		{"leading digit", "1drill", true},
		{"slash", "a/b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestActionStatus_IsTerminal(t *testing.T) {
	gt.B(t, types.ActionPending.IsTerminal()).False()
	gt.B(t, types.ActionExecuted.IsTerminal()).True()
	gt.B(t, types.ActionRejected.IsTerminal()).True()
}

func TestAllThoughtCategories(t *testing.T) {
	categories := types.AllThoughtCategories()
	gt.A(t, categories).Length(6)
	for _, c := range categories {
		gt.B(t, c.IsValid()).True()
	}

	_, err := types.ParseThoughtCategory("Finance")
	gt.Error(t, err)
}

func TestMemoryTypeFromInsight(t *testing.T) {
	gt.V(t, types.MemoryTypeFromInsight("medication")).Equal(types.MemoryMedication)
	gt.V(t, types.MemoryTypeFromInsight("lifestyle")).Equal(types.MemoryLifestyle)
	gt.V(t, types.MemoryTypeFromInsight("test")).Equal(types.MemoryInstruction)
}

func TestParseStaffStatus(t *testing.T) {
	got, err := types.ParseStaffStatus("On Break")
	gt.NoError(t, err)
	gt.V(t, got).Equal(types.StaffOnBreak)

	_, err = types.ParseStaffStatus("Sleeping")
	gt.Error(t, err)
}
