package constants

// Column is one header of the tabular output.
type Column string

const (
	ColClaim              Column = "Claim"
	ColPatient            Column = "Patient"
	ColHealthPlan         Column = "Health Plan"
	ColParticipant        Column = "Participant"
	ColParticipantID      Column = "Participant Id"
	ColDateEntered        Column = "Date Entered"
	ColDatePaid           Column = "Date Paid"
	ColProvider           Column = "Provider"
	ColServiceDate        Column = "Service Date"
	ColServicesProvided   Column = "Services Provided"
	ColProviderBilled     Column = "Provider Billed ($)"
	ColDMBAPaid           Column = "DMBA Paid ($)"
	ColYourResponsibility Column = "Your Responsibility ($)"
	ColMessageCodes       Column = "Message Codes"
)

// outputColumns is the fixed column order of every writer.
var outputColumns = []Column{
	ColClaim,
	ColPatient,
	ColHealthPlan,
	ColParticipant,
	ColParticipantID,
	ColDateEntered,
	ColDatePaid,
	ColProvider,
	ColServiceDate,
	ColServicesProvided,
	ColProviderBilled,
	ColDMBAPaid,
	ColYourResponsibility,
	ColMessageCodes,
}

func OutputColumns() []string {
	result := make([]string, len(outputColumns))
	for i, c := range outputColumns {
		result[i] = string(c)
	}
	return result
}
