package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionSettings(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{
		"SET default_transaction_read_only = on",
		"SET statement_timeout = 1500",
		"SET application_name = 'gridview'",
	}, sessionSettings(Options{StatementTimeout: 1500 * time.Millisecond}))

	require.Equal(t, []string{"SET application_name = 'gridview'"}, sessionSettings(Options{ReadWrite: true}))
}
