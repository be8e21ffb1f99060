package service

import "godrive_backend/internal/util"

// TicketQuestionIDs returns the ordered question ids of ticket n.
//
// The ticket starts at ((n-1)*perTicket) mod total and takes perTicket
// consecutive ids, wrapping past the last question back to 1. Tickets beyond
// total/perTicket therefore repeat earlier windows.
func TicketQuestionIDs(n, perTicket, total int) ([]int, error) {
	if n < 1 {
		return nil, util.NewValidationError("ticket number must be >= 1, got %d", n)
	}
	if perTicket <= 0 || total <= 0 {
		return nil, util.NewValidationError("ticket size and question count must be positive")
	}

	start := ((n - 1) * perTicket) % total
	ids := make([]int, perTicket)
	for i := range ids {
		ids[i] = (start+i)%total + 1
	}
	return ids, nil
}
