package codec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nivschuman/ChainDemocracy/internal/codec"
)

func TestEncoderLayout(t *testing.T) {
	encoder := codec.NewEncoder()
	encoder.WriteBool(true)
	encoder.WriteString("ab")
	encoder.WriteI64(-2)
	encoder.WriteU32(7)

	expected := []byte{
		1,
		2, 0, 0, 0, 'a', 'b',
		0xfe, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		7, 0, 0, 0,
	}
	require.Equal(t, expected, encoder.Bytes())
}

func TestDecoderReadsWhatEncoderWrote(t *testing.T) {
	encoder := codec.NewEncoder()
	encoder.WriteBool(false)
	encoder.WriteString("")
	encoder.WriteString("mayor-2024")
	encoder.WriteF64(62.5)
	encoder.WriteFixed([]byte{9, 9, 9})

	decoder := codec.NewDecoder(encoder.Bytes())

	flag, err := decoder.ReadBool()
	require.NoError(t, err)
	require.False(t, flag)

	empty, err := decoder.ReadString()
	require.NoError(t, err)
	require.Equal(t, "", empty)

	name, err := decoder.ReadString()
	require.NoError(t, err)
	require.Equal(t, "mayor-2024", name)

	share, err := decoder.ReadF64()
	require.NoError(t, err)
	require.Equal(t, 62.5, share)

	fixed, err := decoder.ReadFixed(3)
	require.NoError(t, err)
	require.Equal(t, []byte{9, 9, 9}, fixed)
	require.Zero(t, decoder.Remaining())
}

func TestDecoderRejectsMalformedInput(t *testing.T) {
	_, err := codec.NewDecoder([]byte{2}).ReadBool()
	require.ErrorIs(t, err, codec.ErrDecode)

	_, err = codec.NewDecoder([]byte{10, 0, 0, 0, 'a'}).ReadString()
	require.ErrorIs(t, err, codec.ErrDecode)

	_, err = codec.NewDecoder([]byte{1, 2}).ReadI64()
	require.ErrorIs(t, err, codec.ErrDecode)

	_, err = codec.NewDecoder([]byte{0xff, 0xff, 0xff, 0x0f, 0}).ReadCount(8)
	require.ErrorIs(t, err, codec.ErrDecode)
}

func TestPutInto(t *testing.T) {
	dst := []byte{7, 7, 7, 7, 7}
	require.NoError(t, codec.PutInto(dst, []byte{1, 2}))
	require.Equal(t, []byte{1, 2, 0, 0, 0}, dst)

	err := codec.PutInto(make([]byte, 1), []byte{1, 2})
	require.ErrorIs(t, err, codec.ErrOverflow)
}
