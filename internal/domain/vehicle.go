package domain

// Vehicle is reference data for the fleet unit a ticket reports against.
type Vehicle struct {
	ID                       string
	CurrentKilometers        int
	LastEngineServiceKm      int
	LastTransmissionServiceKm int
}
