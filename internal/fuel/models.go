package fuel

import (
	"fmt"
	"time"
)

// Grade identifies a fuel grade published by the price source.
type Grade string

const (
	GradeAvgas     Grade = "Avgas"
	GradeSuperPlus Grade = "Super+"
	GradeUL91      Grade = "UL91"
)

// Airport is a roster entry: ICAO code plus display name.
type Airport struct {
	ICAO string `json:"icao" yaml:"icao" validate:"required,len=4,alphanum"`
	Name string `json:"name" yaml:"name"`
}

// PriceRecord holds the prices captured for one airport.
// A nil price means the grade is unavailable; it is never treated as zero.
type PriceRecord struct {
	ICAO       string    `json:"icao"`
	Name       string    `json:"name"`
	Avgas      *float64  `json:"avgas,omitempty"`
	SuperPlus  *float64  `json:"super_plus,omitempty"`
	UL91       *float64  `json:"ul91,omitempty"`
	CapturedAt time.Time `json:"captured_at"` // always UTC
}

// AvgasPrice returns the avgas price, or nil.
func (r PriceRecord) AvgasPrice() *float64 {
	return r.Avgas
}

// NonAvgasPrice returns Super+ when present, else UL91, else nil, together
// with the grade the price belongs to. Never both.
func (r PriceRecord) NonAvgasPrice() (*float64, Grade) {
	switch {
	case r.SuperPlus != nil:
		return r.SuperPlus, GradeSuperPlus
	case r.UL91 != nil:
		return r.UL91, GradeUL91
	default:
		return nil, ""
	}
}

// Summary is the public lookup view of a record.
type Summary struct {
	ICAO          string   `json:"icao"`
	AvgasPrice    *float64 `json:"avgas_price"`
	NonAvgasPrice *float64 `json:"non_avgas_price"`
	NonAvgasType  *string  `json:"non_avgas_type"`
}

// Summary builds the lookup view.
func (r PriceRecord) Summary() Summary {
	s := Summary{
		ICAO:       r.ICAO,
		AvgasPrice: r.Avgas,
	}
	if p, grade := r.NonAvgasPrice(); p != nil {
		g := string(grade)
		s.NonAvgasPrice = p
		s.NonAvgasType = &g
	}
	return s
}

func (r PriceRecord) String() string {
	nonAvgas, grade := r.NonAvgasPrice()
	label := string(grade)
	if label == "" {
		label = "Super+/UL91"
	}
	return fmt.Sprintf("%s: AvGas: %s, %s: %s", r.ICAO, FormatPrice(r.Avgas), label, FormatPrice(nonAvgas))
}

// FormatPrice renders a price as "1.23 €/l", or "N/A" when unavailable.
func FormatPrice(p *float64) string {
	if p == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f €/l", *p)
}
