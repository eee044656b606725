package theme

import (
	"reflect"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestEveryRoleIsSet(t *testing.T) {
	for _, th := range All {
		v := reflect.ValueOf(th)
		for i := 0; i < v.NumField(); i++ {
			f := v.Type().Field(i)
			if f.Type != reflect.TypeOf(lipgloss.Color("")) {
				continue
			}
			if v.Field(i).String() == "" {
				t.Errorf("%s: role %s is empty", th.Name, f.Name)
			}
		}
	}
}

func TestProfitColor(t *testing.T) {
	th := FlexokiDark
	tests := []struct {
		profit float64
		want   lipgloss.Color
	}{
		{200_000, th.Profit},
		{0, th.Profit},
		{-1, th.Loss},
	}
	for _, tt := range tests {
		if got := th.ProfitColor(tt.profit); got != tt.want {
			t.Errorf("ProfitColor(%v) = %q, want %q", tt.profit, got, tt.want)
		}
	}
	if th.Profit == th.Loss {
		t.Fatal("profit and loss share a colour")
	}
}

func TestLookupAndFallback(t *testing.T) {
	t.Cleanup(func() { SetActive(FlexokiDark.Name) })

	if _, ok := Lookup("solarized"); ok {
		t.Fatal("Lookup found an unknown theme")
	}
	if got := ByName("solarized"); got.Name != FlexokiDark.Name {
		t.Fatalf("ByName fallback = %q", got.Name)
	}

	SetActive("tokyo-night")
	if Active.Name != "tokyo-night" || Active.Revenue != TokyoNight.Revenue {
		t.Fatalf("Active = %q", Active.Name)
	}

	want := []string{"flexoki-dark", "catppuccin-mocha", "tokyo-night", "terminal"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names = %v", got)
	}
}
