package model_test

import (
	"testing"

	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		name     string
		stock    int
		minLevel int
		want     types.StockStatus
	}{
		{"below half minimum", 45, 100, types.StockCritical},
		{"exactly half minimum", 50, 100, types.StockLow},
		{"just below minimum", 99, 100, types.StockLow},
		{"at minimum", 100, 100, types.StockGood},
		{"restocked", 250, 100, types.StockGood},
		{"empty", 0, 100, types.StockCritical},
		{"odd minimum half boundary", 15, 30, types.StockLow},
		{"odd minimum below half", 14, 30, types.StockCritical},
		{"zero minimum", 0, 0, types.StockGood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.V(t, model.ClassifyStock(tt.stock, tt.minLevel)).Equal(tt.want)
		})
	}
}

func TestInventoryItem_Reclassify(t *testing.T) {
	item := model.InventoryItem{Name: "Pan-D", Stock: 45, MinLevel: 100}
	item.Reclassify()
	gt.V(t, item.Status).Equal(types.StockCritical)

	item.Stock = 250
	item.Reclassify()
	gt.V(t, item.Status).Equal(types.StockGood)
}

func TestClassifyHeartRate(t *testing.T) {
	gt.V(t, model.ClassifyHeartRate(75)).Equal(types.VitalNormal)
	gt.V(t, model.ClassifyHeartRate(105)).Equal(types.VitalWarning)
	gt.V(t, model.ClassifyHeartRate(110)).Equal(types.VitalWarning)
	gt.V(t, model.ClassifyHeartRate(111)).Equal(types.VitalCritical)
}

func TestClassifyVitals(t *testing.T) {
	levels := model.ClassifyVitals(model.VitalSample{HeartRate: 72, SpO2: 97, Glucose: 112})
	gt.V(t, levels.HeartRate).Equal(types.VitalNormal)
	gt.V(t, levels.SpO2).Equal(types.VitalNormal)
	gt.V(t, levels.Glucose).Equal(types.VitalNormal)

	levels = model.ClassifyVitals(model.VitalSample{HeartRate: 120, SpO2: 89, Glucose: 300})
	gt.V(t, levels.HeartRate).Equal(types.VitalCritical)
	gt.V(t, levels.SpO2).Equal(types.VitalCritical)
	gt.V(t, levels.Glucose).Equal(types.VitalCritical)

	levels = model.ClassifyVitals(model.VitalSample{HeartRate: 72, SpO2: 97, Glucose: 112, Insulin: 5.5})
	gt.V(t, levels.Insulin).Equal(types.VitalWarning)
}

func TestClassifyFatigue(t *testing.T) {
	gt.V(t, model.ClassifyFatigue(90)).Equal(types.VitalCritical)
	gt.V(t, model.ClassifyFatigue(80)).Equal(types.VitalWarning)
	gt.V(t, model.ClassifyFatigue(30)).Equal(types.VitalNormal)
}

func TestClampPercent(t *testing.T) {
	gt.V(t, model.ClampPercent(-3)).Equal(0)
	gt.V(t, model.ClampPercent(104)).Equal(100)
	gt.V(t, model.ClampPercent(42.5)).Equal(42.5)
}

func TestDepartmentMetric_Understaffed(t *testing.T) {
	gt.B(t, model.DepartmentMetric{Load: 85, Staffing: 80}.Understaffed()).True()
	gt.B(t, model.DepartmentMetric{Load: 60, Staffing: 100}.Understaffed()).False()
}
