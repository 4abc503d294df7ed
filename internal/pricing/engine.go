package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	bundleDiscountLabel = "Bundle discount (carpets with End of Tenancy)"
	noLiftLabel         = "No lift access surcharge"
	outerAreaLabel      = "Outer area call-out"
	minimumLabel        = "Minimum job value adjustment"
)

// Notes is the fixed set of disclaimers attached to every quote
var Notes = []string{
	"This is an estimate. The final price is confirmed after we review photos or a short survey.",
	"Prices are in GBP. Access, parking and property condition may affect the final price.",
}

// Engine prices QuoteInputs against a fixed Table. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	table Table
}

// NewEngine binds an engine to a pricing table
func NewEngine(table Table) *Engine {
	return &Engine{table: table}
}

// Table returns the table the engine prices with
func (e *Engine) Table() Table {
	return e.table
}

type ledger struct {
	lines    []lineAmount
	subtotal decimal.Decimal
}

type lineAmount struct {
	label  string
	amount decimal.Decimal
}

func (l *ledger) add(label string, amount decimal.Decimal) {
	l.lines = append(l.lines, lineAmount{label: label, amount: amount})
	l.subtotal = l.subtotal.Add(amount)
}

// accumulate adds to the subtotal but only records the line when positive
func (l *ledger) accumulate(label string, amount decimal.Decimal) {
	l.subtotal = l.subtotal.Add(amount)
	if amount.IsPositive() {
		l.lines = append(l.lines, lineAmount{label: label, amount: amount})
	}
}

// Compute prices a quote. It never fails: unknown services or bedroom
// keys simply contribute nothing before the minimum is applied.
func (e *Engine) Compute(in QuoteInput) QuoteResult {
	t := e.table
	l := &ledger{subtotal: decimal.Zero}

	var baseHours *decimal.Decimal

	switch in.Service {
	case ServiceEndOfTenancy, ServiceDeep:
		rates, name := t.EndOfTenancy, "End of Tenancy clean"
		if in.Service == ServiceDeep {
			rates, name = t.Deep, "Deep clean"
		}

		hours := decimal.Zero
		key := in.Bedrooms.Normalize()
		if rate, ok := rates[string(key)]; ok {
			l.add(fmt.Sprintf("%s (%s)", name, key.label()), decimal.NewFromFloat(rate.Price))
			hours = decimal.NewFromFloat(rate.Hours)
		}
		baseHours = &hours

		e.addAddons(l, in.Addons)

		if in.Service == ServiceEndOfTenancy && in.BundleCarpetsWithEoT {
			e.addCarpets(l, in.Items)
		}

	case ServiceCommercial:
		rate := decimal.NewFromFloat(t.Commercial.RatePerHour)
		hours := decimal.Max(
			decimal.NewFromFloat(t.Commercial.MinHours),
			e.areaHours(in.AreaM2),
		)
		label := fmt.Sprintf("Commercial cleaning (%s hrs @ £%s/hr)", hours.Round(0).String(), rate.String())
		l.add(label, hours.Mul(rate))
		baseHours = &hours

	case ServiceCarpets:
		e.addCarpets(l, in.Items)
	}

	if in.Service == ServiceEndOfTenancy && in.BundleCarpetsWithEoT {
		carpetTotal := e.carpetSubtotal(in.Items)
		if carpetTotal.IsPositive() {
			discount := carpetTotal.Mul(decimal.NewFromFloat(t.BundleDiscountPct)).Neg()
			l.add(bundleDiscountLabel, discount)
		}
	}

	if in.Modifiers.NoLift {
		l.add(noLiftLabel, decimal.NewFromFloat(t.Modifiers.NoLift))
	}
	if in.Modifiers.OuterArea {
		l.add(outerAreaLabel, decimal.NewFromFloat(t.Modifiers.OuterArea))
	}

	if in.Modifiers.Urgent {
		l.subtotal = l.subtotal.Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(t.Modifiers.UrgentPct)))
	}
	if in.Modifiers.Weekend {
		l.subtotal = l.subtotal.Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(t.Modifiers.WeekendPct)))
	}

	floor := decimal.NewFromFloat(t.Minimums.Domestic)
	if in.Service == ServiceCommercial {
		floor = decimal.NewFromFloat(t.Minimums.Commercial)
	}
	if l.subtotal.LessThan(floor) {
		l.add(minimumLabel, floor.Sub(l.subtotal))
	}

	subtotal := l.subtotal.Round(2)
	vat := decimal.Zero
	if in.VAT {
		vat = subtotal.Mul(decimal.NewFromFloat(t.VATRate)).Round(2)
	}
	total := subtotal.Add(vat)

	band := decimal.NewFromFloat(t.EstimateBandPct)
	one := decimal.NewFromInt(1)

	result := QuoteResult{
		LineItems: make([]LineItem, 0, len(l.lines)),
		Subtotal:  subtotal.InexactFloat64(),
		VAT:       vat.InexactFloat64(),
		Total:     total.InexactFloat64(),
		EstimateRange: EstimateRange{
			Low:  total.Mul(one.Sub(band)).Round(2).InexactFloat64(),
			High: total.Mul(one.Add(band)).Round(2).InexactFloat64(),
		},
		Scheduling: e.schedule(baseHours),
		Notes:      append([]string(nil), Notes...),
	}

	for _, line := range l.lines {
		result.LineItems = append(result.LineItems, LineItem{
			Label:  line.label,
			Amount: line.amount.Round(2).InexactFloat64(),
		})
	}

	return result
}

func (e *Engine) areaHours(area float64) decimal.Decimal {
	perHour := decimal.NewFromFloat(e.table.Commercial.M2PerCleanerHour)
	if !perHour.IsPositive() {
		return decimal.Zero
	}
	return decimal.NewFromFloat(area).Div(perHour)
}

func (e *Engine) addAddons(l *ledger, a Addons) {
	p := e.table.Addons
	if a.Oven {
		l.add("Oven clean", decimal.NewFromFloat(p.Oven))
	}
	if a.Fridge {
		l.add("Fridge clean", decimal.NewFromFloat(p.Fridge))
	}
	if a.Cabinets {
		l.add("Inside cabinets", decimal.NewFromFloat(p.Cabinets))
	}
	if a.Limescale {
		l.add("Limescale treatment", decimal.NewFromFloat(p.Limescale))
	}
	if a.Windows > 0 {
		perPane := decimal.NewFromFloat(p.WindowPerPane).Mul(decimal.NewFromInt(int64(a.Windows)))
		amount := decimal.Max(decimal.NewFromFloat(p.WindowsMin), perPane)
		l.add(fmt.Sprintf("Interior windows (%d)", a.Windows), amount)
	}
}

type carpetLine struct {
	name  string
	count int
	price float64
}

func (e *Engine) carpetLines(items CarpetItems) []carpetLine {
	p := e.table.Carpets
	return []carpetLine{
		{"Carpet room", items.Room, p.Room},
		{"Stairs", items.Stairs, p.Stairs},
		{"Rug", items.Rug, p.Rug},
		{"2-seat sofa", items.Sofa2, p.Sofa2},
		{"3-seat sofa", items.Sofa3, p.Sofa3},
		{"Armchair", items.Armchair, p.Armchair},
		{"Mattress", items.Mattress, p.Mattress},
	}
}

func (e *Engine) addCarpets(l *ledger, items CarpetItems) {
	for _, c := range e.carpetLines(items) {
		amount := decimal.NewFromFloat(c.price).Mul(decimal.NewFromInt(int64(c.count)))
		l.accumulate(fmt.Sprintf("%s x%d", c.name, c.count), amount)
	}
}

func (e *Engine) carpetSubtotal(items CarpetItems) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range e.carpetLines(items) {
		sum = sum.Add(decimal.NewFromFloat(c.price).Mul(decimal.NewFromInt(int64(c.count))))
	}
	return sum
}

func (e *Engine) schedule(baseHours *decimal.Decimal) Scheduling {
	if baseHours == nil {
		return Scheduling{Crew: 1}
	}

	perCleaner := decimal.NewFromFloat(e.table.HoursPerCleaner)
	crew := int64(1)
	if perCleaner.IsPositive() {
		if c := baseHours.Div(perCleaner).Ceil().IntPart(); c > crew {
			crew = c
		}
	}

	duration := int(baseHours.Div(decimal.NewFromInt(crew)).Ceil().IntPart())
	hours := baseHours.InexactFloat64()

	return Scheduling{
		BaseHours:     &hours,
		Crew:          int(crew),
		DurationHours: &duration,
	}
}
