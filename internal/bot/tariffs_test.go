package bot

import (
	"strings"
	"testing"

	"akvabot/internal/aqua"
)

func TestMatchCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
		ok    bool
	}{
		{"Взрослые билеты", CategoryAdult, true},
		{"🧑 Взрослые билеты", CategoryAdult, true},
		{"adult tickets", CategoryAdult, true},
		{"Детские билеты", CategoryChild, true},
		{"kids", CategoryChild, true},
		{"🧑", CategoryAdult, true},
		{"🧒", CategoryChild, true},
		{"Начать", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := matchCategory(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("matchCategory(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestClassifyTariff(t *testing.T) {
	tests := []struct {
		name   string
		tariff aqua.Tariff
		want   Category
	}{
		{"adult by name", aqua.Tariff{Name: "Взрослый весь день", Price: 500}, CategoryAdult},
		{"child by name", aqua.Tariff{Name: "Детский тариф", Price: 2000}, CategoryChild},
		{"name marker beats price", aqua.Tariff{Name: "Детский VIP", Price: 5000}, CategoryChild},
		{"expensive unnamed is adult", aqua.Tariff{Name: "Весь день", Price: 1500}, CategoryAdult},
		{"cheap unnamed is child", aqua.Tariff{Name: "Вечерний", Price: 600}, CategoryChild},
		{"cutoff itself is child", aqua.Tariff{Name: "Дневной", Price: 1000}, CategoryChild},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyTariff(tt.tariff); got != tt.want {
				t.Errorf("classifyTariff(%+v) = %q, want %q", tt.tariff, got, tt.want)
			}
		})
	}
}

func TestFilterTariffsDedupes(t *testing.T) {
	tariffs := []aqua.Tariff{
		{Name: "Взрослый", Price: 1500},
		{Name: "взрослый", Price: 1500},
		{Name: "Взрослый", Price: 1800},
		{Name: "Детский", Price: 700},
	}

	got := filterTariffs(tariffs, CategoryAdult)
	if len(got) != 2 {
		t.Fatalf("expected 2 adult tariffs after dedupe, got %d: %+v", len(got), got)
	}
	if got[0].Price != 1500 || got[1].Price != 1800 {
		t.Errorf("unexpected tariffs: %+v", got)
	}
}

func TestFormatTariffs(t *testing.T) {
	text := formatTariffs([]aqua.Tariff{
		{Name: "Взрослый", Price: 1500, Description: "весь день"},
		{Name: "Вечерний", Price: 900},
	})

	if !strings.Contains(text, "• Взрослый — 1500 ₽ (весь день)") {
		t.Errorf("missing described tariff line:\n%s", text)
	}
	if !strings.Contains(text, "• Вечерний — 900 ₽\n") {
		t.Errorf("missing plain tariff line:\n%s", text)
	}
}

func TestFormatLoadTiers(t *testing.T) {
	tests := []struct {
		percent int
		marker  string
	}{
		{0, "🟢"},
		{29, "🟢"},
		{30, "🟡"},
		{59, "🟡"},
		{60, "🟠"},
		{84, "🟠"},
		{85, "🔴"},
		{100, "🔴"},
	}

	for _, tt := range tests {
		got := formatLoad(tt.percent)
		if !strings.Contains(got, tt.marker) {
			t.Errorf("formatLoad(%d) = %q, want marker %q", tt.percent, got, tt.marker)
		}
		if !strings.Contains(got, "%") {
			t.Errorf("formatLoad(%d) should include the percentage: %q", tt.percent, got)
		}
	}
}
