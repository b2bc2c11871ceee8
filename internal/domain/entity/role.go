package entity

// Role names carried in access token claims
const (
	RoleSuperAdmin    = "super_admin"
	RoleHospitalAdmin = "hospital_admin"
	RoleDoctor        = "doctor"
	RoleNurse         = "nurse"
	RolePatient       = "patient"
)
