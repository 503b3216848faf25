package gormsource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidIdentifier(t *testing.T) {
	t.Parallel()

	require.NoError(t, validIdentifier("FTD_MASTER_CLEAN"))
	require.NoError(t, validIdentifier("general_ltv"))
	require.Error(t, validIdentifier(""))
	require.Error(t, validIdentifier("t; DROP TABLE x"))
	require.Error(t, validIdentifier("table`name"))
}

func TestFetchTableWithoutConnection(t *testing.T) {
	t.Parallel()

	var s *Source
	_, err := s.FetchTable(context.Background(), "FTD_MASTER_CLEAN")
	require.Error(t, err)

	_, err = New(nil).FetchTable(context.Background(), "FTD_MASTER_CLEAN")
	require.Error(t, err)
}
