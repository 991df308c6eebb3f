package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStandardImplZone(t *testing.T) {
	impl, err := NewStandardImpl("Asia/Shanghai")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "Asia/Shanghai", impl.Location().String())
	require.Equal(t, "Asia/Shanghai", impl.Now().Location().String())

	local, err := NewStandardImpl("")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, time.Local, local.Location())

	_, err = NewStandardImpl("Not/AZone")
	require.Error(t, err)
}

func TestFixedImpl(t *testing.T) {
	at := time.Date(2024, time.March, 4, 19, 44, 0, 0, time.UTC)
	fixed := FixedImpl{At: at}
	require.Equal(t, at, fixed.Now())
	require.Equal(t, time.UTC, fixed.Location())
}
