package attendance

import (
	"errors"
	"strings"

	attendanceerrors "go-attend/internal/attendance/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uqOpenSession is the partial unique index on (employee_id, work_date)
// where checkout_time is null.
const uqOpenSession = "uq_attendance_open"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return attendanceerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == uqOpenSession {
			return attendanceerrors.ErrAlreadyCheckedIn
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "unique") && strings.Contains(errMsg, uqOpenSession) {
		return attendanceerrors.ErrAlreadyCheckedIn
	}

	return err
}
