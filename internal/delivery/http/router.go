package http

import (
	"net/http"

	"hospital-crm/internal/delivery/http/handler"
	"hospital-crm/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router              *mux.Router
	availabilityHandler *handler.AvailabilityHandler
	appointmentHandler  *handler.AppointmentHandler
	windowHandler       *handler.AvailabilityWindowHandler
	medicineHandler     *handler.MedicineHandler
	staffHandler        *handler.StaffHandler
	patientHandler      *handler.PatientHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	availabilityHandler *handler.AvailabilityHandler,
	appointmentHandler *handler.AppointmentHandler,
	windowHandler *handler.AvailabilityWindowHandler,
	medicineHandler *handler.MedicineHandler,
	staffHandler *handler.StaffHandler,
	patientHandler *handler.PatientHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		availabilityHandler: availabilityHandler,
		appointmentHandler:  appointmentHandler,
		windowHandler:       windowHandler,
		medicineHandler:     medicineHandler,
		staffHandler:        staffHandler,
		patientHandler:      patientHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

// Setup registers every route. CORS wraps the whole router so preflight
// requests are answered even when no route matches the OPTIONS method.
func (r *Router) Setup() http.Handler {
	r.router.Use(middleware.Metrics)

	r.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Everything else needs a live access token held by hospital staff
	staff := api.NewRoute().Subrouter()
	staff.Use(r.authMiddleware.Authenticate)
	staff.Use(middleware.RequireStaff)

	// Availability reads
	staff.HandleFunc("/staff/{staffType}/{staffId}/slots", r.availabilityHandler.ListStaffSlots).Methods(http.MethodGet)
	staff.HandleFunc("/doctors/{doctorId}/slots/{slot}", r.availabilityHandler.CheckSlot).Methods(http.MethodGet)

	// Hospital scoped routes
	hospital := staff.PathPrefix("/hospitals/{hospitalId}").Subrouter()
	hospital.Use(middleware.RequireHospitalAccess)
	hospital.HandleFunc("/availability", r.availabilityHandler.ListHospitalAvailability).Methods(http.MethodGet)
	hospital.HandleFunc("/medicines", r.medicineHandler.GetAll).Methods(http.MethodGet)
	hospital.Handle("/medicines", adminOnly(r.medicineHandler.Create)).Methods(http.MethodPost)
	hospital.HandleFunc("/doctors", r.staffHandler.ListDoctors).Methods(http.MethodGet)
	hospital.Handle("/doctors", adminOnly(r.staffHandler.CreateDoctor)).Methods(http.MethodPost)
	hospital.HandleFunc("/nurses", r.staffHandler.ListNurses).Methods(http.MethodGet)
	hospital.Handle("/nurses", adminOnly(r.staffHandler.CreateNurse)).Methods(http.MethodPost)
	hospital.HandleFunc("/patients", r.patientHandler.ListPatients).Methods(http.MethodGet)
	hospital.HandleFunc("/patients", r.patientHandler.CreatePatient).Methods(http.MethodPost)

	// Staff records
	staff.HandleFunc("/doctors/{id}", r.staffHandler.GetDoctor).Methods(http.MethodGet)
	staff.Handle("/doctors/{id}", adminOnly(r.staffHandler.UpdateDoctor)).Methods(http.MethodPut)
	staff.Handle("/doctors/{id}/availability", adminOnly(r.staffHandler.SetDoctorAvailability)).Methods(http.MethodPatch)
	staff.HandleFunc("/nurses/{id}", r.staffHandler.GetNurse).Methods(http.MethodGet)
	staff.Handle("/nurses/{id}", adminOnly(r.staffHandler.UpdateNurse)).Methods(http.MethodPut)
	staff.Handle("/nurses/{id}/availability", adminOnly(r.staffHandler.SetNurseAvailability)).Methods(http.MethodPatch)

	// Patients
	staff.HandleFunc("/patients/{id}", r.patientHandler.GetPatient).Methods(http.MethodGet)
	staff.HandleFunc("/patients/{id}", r.patientHandler.UpdatePatient).Methods(http.MethodPut)
	staff.Handle("/patients/{id}", adminOnly(r.patientHandler.DeletePatient)).Methods(http.MethodDelete)

	// Appointments
	staff.HandleFunc("/appointments", r.appointmentHandler.BookAppointment).Methods(http.MethodPost)
	staff.HandleFunc("/appointments", r.appointmentHandler.ListAppointments).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{id}", r.appointmentHandler.UpdateConsultation).Methods(http.MethodPut)
	staff.HandleFunc("/appointments/{id}/reschedule", r.appointmentHandler.RescheduleAppointment).Methods(http.MethodPut)
	staff.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.CancelAppointment).Methods(http.MethodPost)

	// Medicines by id
	staff.HandleFunc("/medicines/{id}", r.medicineHandler.GetByID).Methods(http.MethodGet)
	staff.Handle("/medicines/{id}", adminOnly(r.medicineHandler.Update)).Methods(http.MethodPut)
	staff.Handle("/medicines/{id}", adminOnly(r.medicineHandler.Delete)).Methods(http.MethodDelete)
	staff.Handle("/medicines/{id}/add-stock", adminOnly(r.medicineHandler.AddStock)).Methods(http.MethodPatch)
	staff.Handle("/medicines/{id}/remove-stock", adminOnly(r.medicineHandler.RemoveStock)).Methods(http.MethodPatch)

	// Admin routes (hospital admin and super admin)
	admin := staff.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireHospitalAdmin)

	// Availability window management
	admin.HandleFunc("/availability", r.windowHandler.CreateWindow).Methods(http.MethodPost)
	admin.HandleFunc("/availability/bulk", r.windowHandler.BulkCreateWindows).Methods(http.MethodPost)
	admin.Handle("/availability/weekly", middleware.RequireSuperAdmin(http.HandlerFunc(r.windowHandler.WeeklyCounts))).Methods(http.MethodGet)
	admin.HandleFunc("/availability/{id}", r.windowHandler.UpdateWindow).Methods(http.MethodPut)
	admin.HandleFunc("/availability/{id}", r.windowHandler.DeleteWindow).Methods(http.MethodDelete)
	admin.HandleFunc("/staff/{staffType}/{staffId}/availability", r.windowHandler.ListWindowsByStaff).Methods(http.MethodGet)
	admin.Handle("/hospitals/{hospitalId}/availability/weekly", middleware.RequireHospitalAccess(http.HandlerFunc(r.windowHandler.WeeklyCounts))).Methods(http.MethodGet)

	// Audit trail (super admin)
	admin.Handle("/audit-logs", middleware.RequireSuperAdmin(http.HandlerFunc(r.auditLogHandler.GetAllAuditLogs))).Methods(http.MethodGet)
	admin.Handle("/audit-logs/{id:[0-9]+}", middleware.RequireSuperAdmin(http.HandlerFunc(r.auditLogHandler.GetAuditLog))).Methods(http.MethodGet)

	return r.corsMiddleware.Handle(r.router)
}

func adminOnly(fn http.HandlerFunc) http.Handler {
	return middleware.RequireHospitalAdmin(fn)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
