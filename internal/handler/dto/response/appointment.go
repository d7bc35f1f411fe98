package response

import (
	"garage-booking/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type AppointmentResponse struct {
	ID           int64  `json:"id"`
	SlotID       int64  `json:"slot_id"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	ServiceID    int64  `json:"service_id"`
	ServiceName  string `json:"service_name"`
	VehicleID    int64  `json:"vehicle_id"`
	VehicleModel string `json:"vehicle_model"`
	PlateNo      string `json:"plate_no"`
	Notes        string `json:"notes"`
	Status       string `json:"status"`
	CreatedAt    int64  `json:"created_at" copier:"-"`
	UpdatedAt    int64  `json:"updated_at" copier:"-"`
}

func FromAppointmentView(v *queries.AppointmentView) *AppointmentResponse {
	res := &AppointmentResponse{}
	_ = copier.CopyWithOption(res, v, copier.Option{IgnoreEmpty: true})
	res.CreatedAt = v.CreatedAt.Unix()
	res.UpdatedAt = v.UpdatedAt.Unix()
	return res
}

func FromAppointmentViews(views []*queries.AppointmentView) []*AppointmentResponse {
	res := make([]*AppointmentResponse, len(views))
	for i, v := range views {
		res[i] = FromAppointmentView(v)
	}
	return res
}
