package tax_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/csg33k/paycalc/internal/domain"
	"github.com/csg33k/paycalc/internal/tax"
	"github.com/csg33k/paycalc/internal/taxtables"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func calc2024(t *testing.T) *tax.Calculator {
	t.Helper()
	c, err := tax.NewForYear(2024)
	if err != nil {
		t.Fatalf("NewForYear(2024): %v", err)
	}
	return c
}

func d(s string) decimal.Decimal { return domain.Dollars(s) }

func eq(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(d(want)) {
		t.Errorf("%s = %s, want %s", name, got.StringFixed(2), want)
	}
}

// ---------------------------------------------------------------------------
// Federal
// ---------------------------------------------------------------------------

func TestFederalTax(t *testing.T) {
	c := calc2024(t)
	tests := []struct {
		name   string
		income string
		status domain.FilingStatus
		want   string
	}{
		{"below standard deduction", "10000", domain.Single, "0"},
		{"exactly standard deduction", "14600", domain.Single, "0"},
		{"single 100k", "100000", domain.Single, "13841"},
		{"empty status is single", "100000", "", "13841"},
		{"married jointly 150k", "150000", domain.MarriedJointly, "16682"},
		{"zero", "0", domain.HeadOfHousehold, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.FederalTax(d(tt.income), tt.status)
			if err != nil {
				t.Fatal(err)
			}
			eq(t, "federal", got, tt.want)
		})
	}
}

func TestFederalTax_NegativeIncome(t *testing.T) {
	_, err := calc2024(t).FederalTax(d("-1"), domain.Single)
	if !errors.Is(err, domain.ErrInvalidIncome) {
		t.Fatalf("err = %v, want ErrInvalidIncome", err)
	}
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "income" {
		t.Fatalf("err = %#v, want ValidationError on income", err)
	}
}

func TestFederalTax_InvalidStatus(t *testing.T) {
	_, err := calc2024(t).FederalTax(d("1000"), "WIDOWED")
	if !errors.Is(err, domain.ErrInvalidFilingStatus) {
		t.Fatalf("err = %v, want ErrInvalidFilingStatus", err)
	}
}

func TestFederalTax_Monotonic(t *testing.T) {
	c := calc2024(t)
	prev := decimal.Zero
	for income := int64(0); income <= 1_000_000; income += 25_000 {
		got, err := c.FederalTax(decimal.NewFromInt(income), domain.Single)
		if err != nil {
			t.Fatal(err)
		}
		if got.LessThan(prev) {
			t.Fatalf("tax at %d (%s) below tax at previous step (%s)", income, got, prev)
		}
		prev = got
	}
}

// ---------------------------------------------------------------------------
// State and local
// ---------------------------------------------------------------------------

func TestStateTax(t *testing.T) {
	c := calc2024(t)
	tests := []struct {
		state  string
		income string
		want   string
	}{
		{"CA", "100000", "5327.14"},
		{"IL", "100000", "4950"},
		{"PA", "50000", "1535"},
		{"TX", "100000", "0"},
		{"ca", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			got, err := c.StateTax(d(tt.income), tt.state, domain.Single)
			if err != nil {
				t.Fatal(err)
			}
			eq(t, "state", got, tt.want)
		})
	}
}

func TestStateTax_NoIncomeTaxStatesAlwaysZero(t *testing.T) {
	c := calc2024(t)
	for _, state := range []string{"AK", "FL", "NV", "SD", "TN", "TX", "WA", "WY"} {
		for _, income := range []string{"0", "1", "55000.55", "250000", "10000000"} {
			got, err := c.StateTax(d(income), state, domain.Single)
			if err != nil {
				t.Fatalf("%s/%s: %v", state, income, err)
			}
			if !got.IsZero() {
				t.Errorf("%s at %s = %s, want 0", state, income, got)
			}
		}
	}
}

func TestStateTax_UnknownState(t *testing.T) {
	_, err := calc2024(t).StateTax(d("1000"), "ZZ", domain.Single)
	if !errors.Is(err, domain.ErrUnknownState) {
		t.Fatalf("err = %v, want ErrUnknownState", err)
	}
}

func TestStateTax_JointDoublesDeductionAndUsesJointLadder(t *testing.T) {
	c := calc2024(t)
	single, _ := c.StateTax(d("200000"), "CA", domain.Single)
	joint, _ := c.StateTax(d("200000"), "CA", domain.MarriedJointly)
	if !joint.LessThan(single) {
		t.Errorf("joint CA tax %s should be below single %s", joint, single)
	}
}

func TestStateTax_DependentsReduceProgressiveTax(t *testing.T) {
	c := calc2024(t)
	none, _ := c.StateTaxWithDependents(d("80000"), "NY", domain.Single, 0)
	two, _ := c.StateTaxWithDependents(d("80000"), "NY", domain.Single, 2)
	// 2 x $1,000 exemption at the 5.5% marginal rate.
	eq(t, "difference", none.Sub(two), "110")
}

func TestLocalTax(t *testing.T) {
	c := calc2024(t)
	tests := []struct {
		state, city, income, want string
	}{
		{"NY", "New York", "100000", "3751.17"},
		{"NY", "Albany", "100000", "0"},
		{"PA", "Philadelphia", "100000", "3750"},
		{"PA", "Erie", "100000", "1000"},
		{"CA", "San Francisco", "100000", "0"},
		{"OH", "", "100000", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.state+"/"+tt.city, func(t *testing.T) {
			got, err := c.LocalTax(d(tt.income), tt.state, tt.city)
			if err != nil {
				t.Fatal(err)
			}
			eq(t, "local", got, tt.want)
		})
	}
}

// ---------------------------------------------------------------------------
// Payroll taxes
// ---------------------------------------------------------------------------

func TestFICA(t *testing.T) {
	c := calc2024(t)
	tests := []struct {
		name                  string
		income                string
		status                domain.FilingStatus
		ss, med, extra, total string
	}{
		{"below cap", "100000", domain.Single, "6200", "1450", "0", "7650"},
		{"above cap single", "250000", domain.Single, "10453.20", "3625", "450", "14528.20"},
		{"married jointly threshold", "250000", domain.MarriedJointly, "10453.20", "3625", "0", "14078.20"},
		{"married separately threshold", "150000", domain.MarriedSeparately, "9300", "2175", "225", "11700"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.FICA(d(tt.income), tt.status)
			if err != nil {
				t.Fatal(err)
			}
			eq(t, "socialSecurity", got.SocialSecurity, tt.ss)
			eq(t, "medicare", got.Medicare, tt.med)
			eq(t, "additionalMedicare", got.AdditionalMedicare, tt.extra)
			eq(t, "total", got.Total, tt.total)
		})
	}
}

func TestFICA_SocialSecurityCapped(t *testing.T) {
	c := calc2024(t)
	tables := taxtables.MustYear(2024)
	atBase, _ := c.FICA(tables.SSWageBase, domain.Single)
	for _, income := range []string{"168600", "168600.01", "200000", "5000000"} {
		got, err := c.FICA(d(income), domain.Single)
		if err != nil {
			t.Fatal(err)
		}
		if !got.SocialSecurity.Equal(atBase.SocialSecurity) {
			t.Errorf("SS(%s) = %s, want %s", income, got.SocialSecurity, atBase.SocialSecurity)
		}
	}
}

func TestSelfEmploymentTax(t *testing.T) {
	got, err := calc2024(t).SelfEmploymentTax(d("100000"), domain.Single)
	if err != nil {
		t.Fatal(err)
	}
	eq(t, "adjustedIncome", got.AdjustedIncome, "92350")
	eq(t, "socialSecurity", got.SocialSecurity, "11451.40")
	eq(t, "medicare", got.Medicare, "2678.15")
	eq(t, "total", got.Total, "14129.55")
	eq(t, "deductiblePortion", got.DeductiblePortion, "7064.78")
}

func TestQuarterlyEstimates(t *testing.T) {
	got, err := calc2024(t).QuarterlyEstimates(domain.QuarterlyParams{
		SelfEmploymentIncome: d("100000"),
		FilingStatus:         domain.Single,
		State:                "TX",
	})
	if err != nil {
		t.Fatal(err)
	}
	eq(t, "adjustedIncome", got.AdjustedIncome, "92935.22")
	eq(t, "federal", got.FederalTax, "12286.75")
	eq(t, "state", got.StateTax, "0")
	eq(t, "total", got.TotalEstimatedTax, "26416.30")
	eq(t, "quarterly", got.QuarterlyPayment, "6604.08")

	wantDue := []string{"2024-04-15", "2024-06-15", "2024-09-15", "2025-01-15"}
	if len(got.Payments) != 4 {
		t.Fatalf("payments = %d, want 4", len(got.Payments))
	}
	for i, p := range got.Payments {
		if p.DueDate.Format(time.DateOnly) != wantDue[i] {
			t.Errorf("Q%d due %s, want %s", p.Quarter, p.DueDate.Format(time.DateOnly), wantDue[i])
		}
	}
}

func TestQuarterlyEstimates_WithholdingCoversEverything(t *testing.T) {
	got, err := calc2024(t).QuarterlyEstimates(domain.QuarterlyParams{
		SelfEmploymentIncome: d("20000"),
		State:                "FL",
		W2Withholding:        d("50000"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !got.QuarterlyPayment.IsZero() {
		t.Errorf("quarterly = %s, want 0", got.QuarterlyPayment)
	}
}

// ---------------------------------------------------------------------------
// Brackets
// ---------------------------------------------------------------------------

func TestBracket(t *testing.T) {
	c := calc2024(t)
	tests := []struct {
		income string
		status domain.FilingStatus
		label  string
	}{
		{"0", domain.Single, "10%"},
		{"100000", domain.Single, "22%"},
		{"61750", domain.Single, "22%"}, // 47150 after deduction opens the 22% bracket
		{"1000000", domain.Single, "37%"},
		{"150000", domain.MarriedJointly, "22%"},
	}
	for _, tt := range tests {
		t.Run(tt.income, func(t *testing.T) {
			got, err := c.BracketLabel(d(tt.income), tt.status)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.label {
				t.Errorf("label = %s, want %s", got, tt.label)
			}
		})
	}
}

func TestNewForYear_Fallback(t *testing.T) {
	c, err := tax.NewForYear(1990)
	if err == nil {
		t.Fatal("expected fallback error")
	}
	if c.Year() != taxtables.DefaultYear {
		t.Errorf("Year() = %d, want %d", c.Year(), taxtables.DefaultYear)
	}
}
