package report

import (
	"math"
	"sort"

	"github.com/pgmhostel/pgm/core/hostel"
)

// StudentFinancialSummary is a student's rent position.
// TotalDue is floored at zero: overpayments are not carried forward as credit.
type StudentFinancialSummary struct {
	StudentID    string          `json:"studentId"`
	MonthlyRent  float64         `json:"monthlyRent"`
	TotalPaid    float64         `json:"totalPaid"`
	TotalDue     float64         `json:"totalDue"`
	HasDue       bool            `json:"hasDue"`
	PaymentCount int             `json:"paymentCount"`
	LastPayment  *hostel.Payment `json:"lastPayment"`
}

// Financials computes the student's financial summary.
// A student without a room owes no rent.
func Financials(s hostel.Student, j *Joiner) StudentFinancialSummary {
	var rent float64
	if room, ok := j.RoomForStudent(s); ok {
		rent = hostel.Finite(room.Rent)
	}
	payments := j.PaymentsForStudent(s)
	paid := totalPaid(payments)
	due := math.Max(rent-paid, 0)

	summary := StudentFinancialSummary{
		StudentID:    s.ID,
		MonthlyRent:  rent,
		TotalPaid:    paid,
		TotalDue:     due,
		HasDue:       due > 0,
		PaymentCount: len(payments),
	}
	if last, ok := LastPayment(payments); ok {
		summary.LastPayment = &last
	}
	return summary
}

// LastPayment returns the payment with the latest date.
// Payments sharing that date resolve to the one appearing first in the collection.
func LastPayment(payments []hostel.Payment) (hostel.Payment, bool) {
	if len(payments) == 0 {
		return hostel.Payment{}, false
	}
	return SortPaymentsByDateDesc(payments)[0], true
}

// SortPaymentsByDateDesc returns a copy of payments sorted latest first; equal dates keep collection order.
// Undated payments sort last.
func SortPaymentsByDateDesc(payments []hostel.Payment) []hostel.Payment {
	sorted := make([]hostel.Payment, len(payments))
	copy(sorted, payments)
	sort.SliceStable(sorted, func(i, k int) bool {
		return sorted[i].PaymentDate.After(sorted[k].PaymentDate.Time)
	})
	return sorted
}

func totalPaid(payments []hostel.Payment) float64 {
	var total float64
	for _, p := range payments {
		total += hostel.Finite(p.Amount)
	}
	return total
}
