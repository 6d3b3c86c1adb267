package entity

// ClaimHeader identifies one insurance claim. Any field may be empty when the
// page did not print it.
type ClaimHeader struct {
	Claim         string `json:"claim"`
	Patient       string `json:"patient"`
	HealthPlan    string `json:"health_plan"`
	Participant   string `json:"participant"`
	ParticipantID string `json:"participant_id"`
	DateEntered   string `json:"date_entered"`
	DatePaid      string `json:"date_paid"`
	Provider      string `json:"provider"`
}

// HasClaim reports whether the header starts a claim.
func (h ClaimHeader) HasClaim() bool {
	return h.Claim != ""
}

// Values returns the header fields in output column order.
func (h ClaimHeader) Values() []string {
	return []string{
		h.Claim,
		h.Patient,
		h.HealthPlan,
		h.Participant,
		h.ParticipantID,
		h.DateEntered,
		h.DatePaid,
		h.Provider,
	}
}

// ServiceRow is one billed service line. Amounts are signed fixed-point strings
// with two fraction digits.
type ServiceRow struct {
	ServiceDate        string `json:"service_date"`
	ServiceDescription string `json:"services_provided"`
	ProviderBilled     string `json:"provider_billed"`
	AmountPaid         string `json:"dmba_paid"`
	YourResponsibility string `json:"your_responsibility"`
	MessageCodes       string `json:"message_codes"`
}

// Values returns the row fields in output column order.
func (r ServiceRow) Values() []string {
	return []string{
		r.ServiceDate,
		r.ServiceDescription,
		r.ProviderBilled,
		r.AmountPaid,
		r.YourResponsibility,
		r.MessageCodes,
	}
}

// OutputRecord is a service row stamped with the claim header that was active
// when the row was assembled.
type OutputRecord struct {
	ClaimHeader
	ServiceRow
	Page int `json:"page"`
}

// Values returns all 14 output columns in order.
func (o OutputRecord) Values() []string {
	return append(o.ClaimHeader.Values(), o.ServiceRow.Values()...)
}

// RunSummary counts what one extraction run did.
type RunSummary struct {
	Pages          int
	LegendPages    int
	Records        int
	DroppedRows    int // rows seen before any claim header
	DroppedPending int // unfinished row at end of document
	Claims         int
}
