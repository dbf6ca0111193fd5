package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// isBookableDate проверяет дату по политике арендатора:
// не в прошлом и не дальше advanceBookingDays (0 - без ограничения)
func isBookableDate(date, now time.Time, settings *domain.BookingSettings) bool {
	dateOnly := truncateToDay(date)
	today := truncateToDay(now)

	if dateOnly.Before(today) {
		return false
	}

	if settings.HasAdvanceBookingLimit() && dateOnly.After(today.AddDate(0, 0, settings.AdvanceBookingDays)) {
		return false
	}

	return true
}

// dropBeforeNotice убирает на сегодняшнюю дату слоты, начинающиеся раньше now + minBookingNoticeMinutes
func dropBeforeNotice(candidates []domain.Candidate, date, now time.Time, noticeMinutes int) []domain.Candidate {
	if !isSameDay(date, now) {
		return candidates
	}

	minAllowed, err := types.NewTimeString(now).AddMinutes(noticeMinutes)
	if err != nil {
		// Порог за пределами суток: на сегодня записаться уже нельзя
		return []domain.Candidate{}
	}

	result := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.StartTime.IsBefore(minAllowed) {
			result = append(result, c)
		}
	}

	return result
}

// toSlots конвертирует кандидатов в слоты ответа
func toSlots(candidates []domain.Candidate) []Slot {
	slots := make([]Slot, 0, len(candidates))
	for _, c := range candidates {
		end, err := c.EndTime()
		if err != nil {
			continue
		}
		slots = append(slots, Slot{
			StartTime:       c.StartTime,
			EndTime:         end,
			DurationMinutes: c.DurationMinutes,
		})
	}
	return slots
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
