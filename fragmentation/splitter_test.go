package fragmentation

import (
	"testing"

	"github.com/rsocket-go-contrib/fragment/core"
	"github.com/rsocket-go-contrib/fragment/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_SingleFragment(t *testing.T) {
	var results []SplitResult
	Split(64, []byte("hello"), []byte("md"), func(index int, result SplitResult) {
		results = append(results, result)
	})
	require.Len(t, results, 1)
	r := results[0]
	assert.False(t, r.Flag.Check(core.FlagFollow), "single fragment should not follow")
	assert.True(t, r.Flag.Check(core.FlagMetadata))
	assert.Equal(t, []byte("md"), r.Metadata)
	assert.Equal(t, []byte("hello"), r.Data)
}

func TestSplit_DataOnly(t *testing.T) {
	data := make([]byte, 32)
	for i := range data {
		data[i] = byte(i)
	}
	var results []SplitResult
	Split(14, data, nil, func(index int, result SplitResult) {
		results = append(results, result)
	})
	require.Len(t, results, 4)
	for i, r := range results {
		assert.Nil(t, r.Metadata, "fragment %d should not carry metadata", i)
		assert.False(t, r.Flag.Check(core.FlagMetadata))
		assert.Equal(t, data[i*8:(i+1)*8], r.Data, "bad data of fragment %d", i)
		assert.Equal(t, i < 3, r.Flag.Check(core.FlagFollow), "bad follows flag of fragment %d", i)
	}
}

func TestSplit_MetadataBoundary(t *testing.T) {
	metadata := []byte(common.RandAlphanumeric(10))
	data := []byte(common.RandAlphanumeric(10))
	var results []SplitResult
	Split(15, data, metadata, func(index int, result SplitResult) {
		results = append(results, result)
	})
	require.Len(t, results, 3)

	assert.Equal(t, metadata[:6], results[0].Metadata)
	assert.Nil(t, results[0].Data)
	assert.True(t, results[0].Flag.Check(core.FlagMetadata))
	assert.True(t, results[0].Flag.Check(core.FlagFollow))

	assert.Equal(t, metadata[6:], results[1].Metadata)
	assert.Equal(t, data[:2], results[1].Data)
	assert.True(t, results[1].Flag.Check(core.FlagMetadata))
	assert.True(t, results[1].Flag.Check(core.FlagFollow))

	assert.Nil(t, results[2].Metadata)
	assert.Equal(t, data[2:], results[2].Data)
	assert.False(t, results[2].Flag.Check(core.FlagMetadata))
	assert.False(t, results[2].Flag.Check(core.FlagFollow))
}

func TestSplitSkip_Placeholder(t *testing.T) {
	data := []byte(common.RandAlphanumeric(100))
	var results []SplitResult
	SplitSkip(20, 4, data, nil, func(index int, result SplitResult) {
		results = append(results, result)
	})
	require.True(t, len(results) > 1)
	assert.Len(t, results[0].Data, 20-core.FrameHeaderLen-4, "first fragment budget should subtract placeholder")
	var joined []byte
	for i, r := range results {
		if i > 0 {
			assert.True(t, len(r.Data) <= 20-core.FrameHeaderLen)
		}
		joined = append(joined, r.Data...)
	}
	assert.Equal(t, data, joined)
}

func TestSplit_Matrix(t *testing.T) {
	data := []byte(common.RandAlphanumeric(512))
	metadata := []byte(common.RandAlphanumeric(177))
	for _, mtu := range []int{MinFragment, 16, 32, 64, 128, 1024} {
		var joinedM, joinedD []byte
		var n int
		var lastFollow bool
		Split(mtu, data, metadata, func(index int, result SplitResult) {
			assert.Equal(t, n, index)
			n++
			size := core.FrameHeaderLen + len(result.Metadata) + len(result.Data)
			if result.Flag.Check(core.FlagMetadata) {
				size += 3
			}
			assert.True(t, size <= mtu, "fragment %d exceeds mtu %d", index, mtu)
			joinedM = append(joinedM, result.Metadata...)
			joinedD = append(joinedD, result.Data...)
			lastFollow = result.Flag.Check(core.FlagFollow)
		})
		assert.False(t, lastFollow, "last fragment must clear follows flag")
		assert.Equal(t, metadata, joinedM, "metadata mismatch with mtu %d", mtu)
		assert.Equal(t, data, joinedD, "data mismatch with mtu %d", mtu)
	}
}

func TestIsValidFragment(t *testing.T) {
	assert.Error(t, IsValidFragment(MinFragment-1))
	assert.NoError(t, IsValidFragment(MinFragment))
	assert.NoError(t, IsValidFragment(MaxFragment))
	assert.Error(t, IsValidFragment(MaxFragment+1))
}

func TestIsFragmentable(t *testing.T) {
	for _, it := range []core.FrameType{
		core.FrameTypeRequestResponse,
		core.FrameTypeRequestFNF,
		core.FrameTypeRequestStream,
		core.FrameTypeRequestChannel,
		core.FrameTypePayload,
	} {
		assert.True(t, IsFragmentable(it), "%s should be fragmentable", it)
	}
	for _, it := range []core.FrameType{
		core.FrameTypeSetup,
		core.FrameTypeLease,
		core.FrameTypeKeepalive,
		core.FrameTypeRequestN,
		core.FrameTypeCancel,
		core.FrameTypeError,
		core.FrameTypeMetadataPush,
		core.FrameTypeResume,
		core.FrameTypeResumeOK,
		core.FrameTypeExt,
	} {
		assert.False(t, IsFragmentable(it), "%s should not be fragmentable", it)
	}
}
