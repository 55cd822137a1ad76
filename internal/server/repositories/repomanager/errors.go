package repomanager

import (
	"errors"
	"strconv"
	"syscall"

	"github.com/dmitrijs2005/symptoms/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

// connectionError wraps an acquisition failure, extracting the most specific
// code the driver exposes.
func connectionError(err error) error {
	return &common.ConnectionError{Code: errorCode(err), Err: err}
}

func errorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code != 0 {
		return strconv.Itoa(int(cmdErr.Code))
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		return strconv.Itoa(int(errno))
	}

	return "0"
}
