package domain

// Role роль вызывающего по отношению к конкретной записи
type Role string

const (
	RoleNone       Role = "none"
	RoleCustomer   Role = "customer"
	RoleStylist    Role = "stylist"
	RoleSalonAdmin Role = "salon_admin"
	RoleSuperuser  Role = "superuser"
)

// Actor данные вызывающего, проверенные слоем аутентификации
type Actor struct {
	UserID      int64
	IsSuperuser bool

	// StylistID заполнен, если у пользователя есть профиль мастера
	StylistID *int64

	// AdminSalonID заполнен, если пользователь - администратор салона
	AdminSalonID *int64
}

// ResolveRole возвращает роль actor'а по отношению к записи.
// Единая точка разрешения прав: все операции над статусом и оплатой
// записи обязаны ходить через неё, а не проверять права по месту.
//
// Приоритет ролей: Superuser > SalonAdmin > Stylist > Customer.
func ResolveRole(actor Actor, appointment *Appointment, stylist *Stylist) Role {
	if actor.IsSuperuser {
		return RoleSuperuser
	}

	if actor.AdminSalonID != nil && stylist != nil && *actor.AdminSalonID == stylist.SalonID {
		return RoleSalonAdmin
	}

	if actor.StylistID != nil && *actor.StylistID == appointment.StylistID {
		return RoleStylist
	}

	if appointment.CustomerID != nil && *appointment.CustomerID == actor.UserID {
		return RoleCustomer
	}

	return RoleNone
}

// CanManageAppointment возвращает true для ролей, которым разрешены
// переходы Confirmed/Cancelled/Done
func (r Role) CanManageAppointment() bool {
	return r == RoleStylist || r == RoleSalonAdmin || r == RoleSuperuser
}

// CanCancelOwn возвращает true, если роль позволяет отменить собственную запись
func (r Role) CanCancelOwn() bool {
	return r == RoleCustomer || r.CanManageAppointment()
}
