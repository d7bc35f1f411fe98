package request

import (
	"strings"

	"garage-booking/internal/usecase/commands"
)

type CreateSlotRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (r *CreateSlotRequest) ToInput() commands.CreateSlotInput {
	return commands.CreateSlotInput{
		Date:      strings.TrimSpace(r.Date),
		StartTime: strings.TrimSpace(r.StartTime),
		EndTime:   strings.TrimSpace(r.EndTime),
	}
}

func (r *CreateSlotRequest) Form() map[string]any {
	return map[string]any{
		"date":       r.Date,
		"start_time": r.StartTime,
		"end_time":   r.EndTime,
	}
}
