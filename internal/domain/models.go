package domain

import "time"

// Enumerations
const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleUser       UserRole = "USER"

	CondominiumActive     CondominiumState = "Activo"
	CondominiumInactive   CondominiumState = "Inactivo"
	CondominiumDelinquent CondominiumState = "Moroso"

	// Shared status vocabulary referenced by both expenses and
	// maintenance orders. Ids are fixed at seed time.
	StatusPending ExpenseStatusID = 1
	StatusPaid    ExpenseStatusID = 2
	StatusVoided  ExpenseStatusID = 3

	RequestReservation RequestType = "Reserva"
	RequestComplaint   RequestType = "Reclamo"
	RequestSuggestion  RequestType = "Sugerencia"

	RequestPending  RequestStatus = 1
	RequestApproved RequestStatus = 2
	RequestRejected RequestStatus = 3

	DeliveryPending  DeliveryStatus = "pending"
	DeliveryPickedUp DeliveryStatus = "picked_up"

	ActionPayMaintenance = "PAGO_MANTENCION"
)

type UserRole string
type CondominiumState string
type ExpenseStatusID int32
type RequestType string
type RequestStatus int32
type DeliveryStatus string

type Condominium struct {
	ID              int64
	AdministratorID int64
	Name            string
	Commune         string
	Address         string
	State           CondominiumState
	TotalUnits      int
	ContactEmail    string
	ContactPhone    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type User struct {
	ID            int64
	FirstName     string
	LastName      string
	Email         string
	PasswordHash  *string
	IsActive      bool
	CondominiumID *int64
	Roles         []UserRole
	CreatedAt     time.Time
}

type Role struct {
	ID   int64
	Name UserRole
}

type Provider struct {
	ID          int64
	Name        string
	ServiceType string
	RUT         string
	Email       string
	Phone       string
	Address     string
	IsActive    bool
	CreatedAt   time.Time
}

// ExpenseStatus is the single source of truth for lifecycle state names.
type ExpenseStatus struct {
	ID          ExpenseStatusID
	Name        string
	Description string
	IsActive    bool
}

type ExpenseCategory struct {
	ID          int64
	Name        string
	Description string
	IsActive    bool
}

type Maintenance struct {
	ID            int64
	CondominiumID int64
	ProviderID    int64
	Title         string
	Description   string
	ScheduledDate time.Time
	CompletedDate *time.Time
	EstimatedCost Amount
	ActualCost    *Amount
	StatusID      ExpenseStatusID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Expense struct {
	ID             int64
	CondominiumID  int64
	ProviderID     int64
	CategoryID     int64
	MaintenanceID  *int64
	Amount         Amount
	ExpenseDate    time.Time
	Observation    string
	DocumentNumber string
	StatusID       ExpenseStatusID
	CreatedAt      time.Time
}

// AuditLog rows are append-only; nothing updates or deletes them.
type AuditLog struct {
	ID       int64
	UserID   int64
	Action   string
	Entity   string
	EntityID int64
	LoggedAt time.Time
}

type CommonArea struct {
	ID            int64
	CondominiumID int64
	Name          string
	Description   string
	Price         Amount
	IsActive      bool
	CreatedAt     time.Time
}

type Request struct {
	ID            int64
	CondominiumID int64
	CommonAreaID  *int64
	ResidentName  string
	UnitNumber    string
	Type          RequestType
	Subject       string
	Description   string
	RequestDate   time.Time
	StatusID      RequestStatus
	CreatedAt     time.Time
}

type Visit struct {
	ID            int64
	CondominiumID int64
	VisitorName   string
	VisitorRUT    string
	UnitNumber    string
	Patent        *string
	Comment       string
	EntryTime     time.Time
	ExitTime      *time.Time
}

type Delivery struct {
	ID            int64
	CondominiumID int64
	UnitNumber    string
	RecipientName string
	TrackingCode  string
	Comment       string
	Status        DeliveryStatus
	ArrivalTime   time.Time
	PickupTime    *time.Time
}
