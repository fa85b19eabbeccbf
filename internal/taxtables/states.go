package taxtables

import (
	"strings"

	"github.com/csg33k/paycalc/internal/domain"
)

// stateTable returns single-filer regimes for the 50 states and DC.
// Joint filers get JointBrackets where set; otherwise the single ladder
// applies with doubled deductions and exemptions.
func stateTable() map[string]domain.StateTaxInfo {
	t := map[string]domain.StateTaxInfo{}
	add := func(s domain.StateTaxInfo) { t[s.Code] = s }

	for code, name := range map[string]string{
		"AK": "Alaska", "FL": "Florida", "NV": "Nevada", "NH": "New Hampshire",
		"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "WA": "Washington",
		"WY": "Wyoming",
	} {
		add(none(code, name))
	}

	add(flat("AZ", "Arizona", "2.5"))
	add(flat("CO", "Colorado", "4.4"))
	add(flat("GA", "Georgia", "5.39"))
	add(flat("ID", "Idaho", "5.695"))
	add(flat("IL", "Illinois", "4.95"))
	add(withLocal(flat("IN", "Indiana", "3.05"), "1.5"))
	add(withLocal(flat("KY", "Kentucky", "4.0"), "0"))
	add(withLocal(flat("MI", "Michigan", "4.25"), "0"))
	add(flat("NC", "North Carolina", "4.5"))
	add(withLocal(flat("PA", "Pennsylvania", "3.07"), "1.0"))
	add(flat("UT", "Utah", "4.55"))

	add(withLocal(prog("AL", "Alabama", "2500", "1500", "500",
		"2:500", "4:3000", "5"), "0"))
	add(prog("AR", "Arkansas", "2340", "0", "0",
		"0:5100", "2:10300", "3:14700", "3.4:24300", "3.9"))
	ca := prog("CA", "California", "5540", "0", "0",
		"1:10756", "2:25499", "4:40245", "6:55866", "8:70606", "9.3:360659",
		"10.3:432787", "11.3:721314", "12.3:1000000", "13.3")
	ca.JointBrackets = brackets("1:21512", "2:50998", "4:80490", "6:111732", "8:141212",
		"9.3:721318", "10.3:865574", "11.3:1000000", "12.3:1442628", "13.3")
	add(ca)
	add(prog("CT", "Connecticut", "0", "15000", "0",
		"2:10000", "4.5:50000", "5.5:100000", "6:200000", "6.5:250000", "6.9:500000", "6.99"))
	add(prog("DC", "District of Columbia", "14600", "0", "0",
		"4:10000", "6:40000", "6.5:60000", "8.5:250000", "9.25:500000", "9.75:1000000", "10.75"))
	add(withLocal(prog("DE", "Delaware", "3250", "0", "0",
		"0:2000", "2.2:5000", "3.9:10000", "4.8:20000", "5.2:25000", "5.55:60000", "6.6"), "0"))
	add(prog("HI", "Hawaii", "2200", "1144", "1144",
		"1.4:2400", "3.2:4800", "5.5:9600", "6.4:14400", "6.8:19200", "7.2:24000",
		"7.6:36000", "7.9:48000", "8.25:150000", "9:175000", "10:200000", "11"))
	add(prog("IA", "Iowa", "0", "0", "0",
		"4.4:6210", "4.82:31050", "5.7"))
	add(prog("KS", "Kansas", "3500", "2250", "2250",
		"3.1:15000", "5.25:30000", "5.7"))
	add(prog("LA", "Louisiana", "0", "4500", "1000",
		"1.85:12500", "3.5:50000", "4.25"))
	add(prog("MA", "Massachusetts", "0", "4400", "1000",
		"5:1053750", "9"))
	add(withLocal(prog("MD", "Maryland", "2550", "3200", "3200",
		"2:1000", "3:2000", "4:3000", "4.75:100000", "5:125000", "5.25:150000", "5.5:250000", "5.75"), "3.2"))
	add(prog("ME", "Maine", "14600", "5000", "0",
		"5.8:26050", "6.75:61600", "7.15"))
	add(prog("MN", "Minnesota", "14575", "0", "4950",
		"5.35:31690", "6.8:104090", "7.85:193240", "9.85"))
	add(withLocal(prog("MO", "Missouri", "14600", "0", "0",
		"0:1273", "2:2546", "2.5:3819", "3:5092", "3.5:6365", "4:7638", "4.5:8911", "4.8"), "0"))
	add(prog("MS", "Mississippi", "2300", "6000", "1500",
		"0:10000", "4.7"))
	add(prog("MT", "Montana", "14600", "0", "0",
		"4.7:20500", "5.9"))
	add(prog("ND", "North Dakota", "14600", "0", "0",
		"0:47150", "1.95:238200", "2.5"))
	add(prog("NE", "Nebraska", "8300", "0", "0",
		"2.46:3700", "3.51:22170", "5.01:35730", "5.84"))
	add(prog("NJ", "New Jersey", "0", "1000", "1500",
		"1.4:20000", "1.75:35000", "3.5:40000", "5.525:75000", "6.37:500000", "8.97:1000000", "10.75"))
	add(prog("NM", "New Mexico", "14600", "0", "0",
		"1.7:5500", "3.2:11000", "4.7:16000", "4.9:210000", "5.9"))
	ny := withLocal(prog("NY", "New York", "8000", "0", "1000",
		"4:8500", "4.5:11700", "5.25:13900", "5.5:80650", "6:215400", "6.85:1077550",
		"9.65:5000000", "10.3:25000000", "10.9"), "0")
	ny.JointBrackets = brackets("4:17150", "4.5:23600", "5.25:27900", "5.5:161550", "6:323200",
		"6.85:2155350", "9.65:5000000", "10.3:25000000", "10.9")
	add(ny)
	add(withLocal(prog("OH", "Ohio", "0", "0", "0",
		"0:26050", "2.75:100000", "3.5"), "0"))
	add(prog("OK", "Oklahoma", "6350", "1000", "1000",
		"0.25:1000", "0.75:2500", "1.75:3750", "2.75:4900", "3.75:7200", "4.75"))
	add(prog("OR", "Oregon", "2745", "0", "0",
		"4.75:4300", "6.75:10750", "8.75:125000", "9.9"))
	add(prog("RI", "Rhode Island", "10550", "4950", "4950",
		"3.75:77450", "4.75:176050", "5.99"))
	add(prog("SC", "South Carolina", "14600", "0", "0",
		"0:3460", "3:17330", "6.4"))
	add(prog("VA", "Virginia", "8000", "930", "930",
		"2:3000", "3:5000", "5:17000", "5.75"))
	add(prog("VT", "Vermont", "7000", "4850", "4850",
		"3.35:45400", "6.6:110050", "7.6:229550", "8.75"))
	add(prog("WI", "Wisconsin", "13230", "700", "700",
		"3.5:14320", "4.4:28640", "5.3:315310", "7.65"))
	add(prog("WV", "West Virginia", "0", "2000", "2000",
		"2.36:10000", "3.15:25000", "3.54:40000", "4.72:60000", "5.12"))

	return t
}

// localityTable lists city wage taxes. Lookups fall back to the state's
// LocalRate when a city has no entry.
func localityTable() map[string]domain.LocalTaxInfo {
	t := map[string]domain.LocalTaxInfo{}
	nyc := domain.LocalTaxInfo{Name: "New York City", State: "NY",
		Brackets: brackets("3.078:12000", "3.762:25000", "3.819:50000", "3.876")}
	for _, alias := range []string{"New York", "New York City", "NYC", "Manhattan", "Brooklyn", "Queens", "Bronx", "Staten Island"} {
		t[localityKey("NY", alias)] = nyc
	}
	for _, l := range []struct{ state, city, rate string }{
		{"PA", "Philadelphia", "3.75"},
		{"PA", "Pittsburgh", "3.0"},
		{"MI", "Detroit", "2.4"},
		{"MI", "Grand Rapids", "1.5"},
		{"OH", "Columbus", "2.5"},
		{"OH", "Cleveland", "2.5"},
		{"OH", "Cincinnati", "1.8"},
		{"OH", "Toledo", "2.5"},
		{"MO", "Kansas City", "1.0"},
		{"MO", "St. Louis", "1.0"},
		{"KY", "Louisville", "2.2"},
		{"KY", "Lexington", "2.25"},
		{"MD", "Baltimore", "3.2"},
		{"DE", "Wilmington", "1.25"},
		{"AL", "Birmingham", "1.0"},
		{"IN", "Indianapolis", "2.02"},
	} {
		t[localityKey(l.state, l.city)] = domain.LocalTaxInfo{Name: l.city, State: l.state, Rate: percent(l.rate)}
	}
	return t
}

func none(code, name string) domain.StateTaxInfo {
	return domain.StateTaxInfo{Code: code, Name: name, Regime: domain.NoIncomeTax}
}

func flat(code, name, rate string) domain.StateTaxInfo {
	return domain.StateTaxInfo{Code: code, Name: name, Regime: domain.FlatTax, FlatRate: percent(rate)}
}

func prog(code, name, stdDeduction, personal, dependent string, steps ...string) domain.StateTaxInfo {
	return domain.StateTaxInfo{
		Code:               code,
		Name:               name,
		Regime:             domain.Progressive,
		Brackets:           brackets(steps...),
		StandardDeduction:  domain.Dollars(stdDeduction),
		PersonalExemption:  domain.Dollars(personal),
		DependentExemption: domain.Dollars(dependent),
	}
}

// withLocal marks the state as levying local wage taxes, with rate applied
// in cities that have no entry of their own.
func withLocal(s domain.StateTaxInfo, rate string) domain.StateTaxInfo {
	s.HasLocalTax = true
	s.LocalRate = percent(rate)
	return s
}

func normalizeState(code string) string { return strings.ToUpper(strings.TrimSpace(code)) }

func localityKey(state, city string) string {
	c := strings.ToUpper(strings.Join(strings.Fields(city), " "))
	c = strings.ReplaceAll(c, "SAINT ", "ST. ")
	return normalizeState(state) + "/" + c
}
