package converter

import (
	"hospital-crm/internal/delivery/dto"
	"hospital-crm/internal/domain/entity"
	"hospital-crm/pkg/timeslot"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:          appointment.ID,
		DoctorID:    appointment.DoctorID,
		DoctorName:  appointment.Doctor.User.FullName,
		PatientID:   appointment.PatientID,
		PatientName: appointment.Patient.FullName,
		Date:        appointment.Date.Format(timeslot.DateLayout),
		Slot:        clockLabel(appointment.Slot),
		Severity:    appointment.Severity,
		Description: appointment.Description,
		LabReportID: appointment.LabReportID,
		Status:      string(appointment.Status),
		CreatedAt:   appointment.CreatedAt,
		UpdatedAt:   appointment.UpdatedAt,
	}

	if appointment.Remarks != nil {
		response.Remarks = &dto.RemarksResponse{
			Text:     appointment.Remarks.Text,
			Lab:      nonNil(appointment.Remarks.Lab),
			Medicine: nonNil(appointment.Remarks.Medicine),
		}
	}

	if appointment.NextFollowup != nil {
		followup := appointment.NextFollowup.Format(timeslot.DateLayout)
		response.NextFollowup = &followup
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

// RemarksFromRequest converts a RemarksRequest DTO to AppointmentRemarks entity
func RemarksFromRequest(req *dto.RemarksRequest) *entity.AppointmentRemarks {
	if req == nil {
		return nil
	}
	return &entity.AppointmentRemarks{
		Text:     req.Text,
		Lab:      nonNil(req.Lab),
		Medicine: nonNil(req.Medicine),
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
