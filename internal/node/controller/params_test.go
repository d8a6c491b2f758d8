package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type writerFunc func(ctx context.Context, params map[string]float64) error

func (f writerFunc) WriteParams(ctx context.Context, params map[string]float64) error {
	return f(ctx, params)
}

func TestParams_SetParams_Merge(t *testing.T) {
	var written []map[string]float64
	writer := writerFunc(func(_ context.Context, params map[string]float64) error {
		written = append(written, params)
		return nil
	})
	store := &ParamStoreMock{
		SaveParamsFunc: func(_ context.Context, _ map[string]float64) error { return nil },
	}

	p := NewParams(writer, store)
	ctx := context.Background()

	_, err := p.SetParams(ctx, map[string]float64{"temp": 22, "rh": 45})
	require.NoError(t, err)

	applied, err := p.SetParams(ctx, map[string]float64{"temp": 23})
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"temp": 23, "rh": 45}, applied)
	assert.Equal(t, applied, p.Values())
	require.Len(t, written, 2)
	// на контроллер уходит полный набор, а не только изменения
	assert.Equal(t, map[string]float64{"temp": 23, "rh": 45}, written[1])

	calls := store.SaveParamsCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, applied, calls[1].Params)
}

func TestParams_SetParams_WriterFailureKeepsState(t *testing.T) {
	fail := false
	writer := writerFunc(func(_ context.Context, _ map[string]float64) error {
		if fail {
			return errors.New("serial write timeout")
		}
		return nil
	})
	store := &ParamStoreMock{
		SaveParamsFunc: func(_ context.Context, _ map[string]float64) error { return nil },
	}

	p := NewParams(writer, store)
	ctx := context.Background()

	_, err := p.SetParams(ctx, map[string]float64{"temp": 22})
	require.NoError(t, err)

	fail = true
	current, err := p.SetParams(ctx, map[string]float64{"temp": 30})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write params to controller")

	assert.Equal(t, map[string]float64{"temp": 22}, current)
	assert.Equal(t, map[string]float64{"temp": 22}, p.Values())
	assert.Len(t, store.SaveParamsCalls(), 1)
}

func TestParams_SetParams_StoreFailure(t *testing.T) {
	store := &ParamStoreMock{
		SaveParamsFunc: func(_ context.Context, _ map[string]float64) error {
			return errors.New("disk full")
		},
	}

	p := NewParams(nil, store)

	applied, err := p.SetParams(context.Background(), map[string]float64{"temp": 22})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to persist params")

	// контроллер уже принял значения, состояние обновлено
	assert.Equal(t, map[string]float64{"temp": 22}, applied)
	assert.Equal(t, map[string]float64{"temp": 22}, p.Values())
}

func TestParams_Restore(t *testing.T) {
	t.Run("loads saved values", func(t *testing.T) {
		store := &ParamStoreMock{
			LoadParamsFunc: func(_ context.Context) (map[string]float64, error) {
				return map[string]float64{"temp": 19.5}, nil
			},
		}

		p := NewParams(nil, store)
		require.NoError(t, p.Restore(context.Background()))
		assert.Equal(t, map[string]float64{"temp": 19.5}, p.Values())
	})

	t.Run("load error", func(t *testing.T) {
		store := &ParamStoreMock{
			LoadParamsFunc: func(_ context.Context) (map[string]float64, error) {
				return nil, errors.New("bucket missing")
			},
		}

		p := NewParams(nil, store)
		err := p.Restore(context.Background())
		require.Error(t, err)
		assert.Empty(t, p.Values())
	})

	t.Run("no store", func(t *testing.T) {
		p := NewParams(nil, nil)
		assert.NoError(t, p.Restore(context.Background()))
	})
}

func TestParams_ValuesIsCopy(t *testing.T) {
	p := NewParams(nil, nil)
	_, err := p.SetParams(context.Background(), map[string]float64{"temp": 22})
	require.NoError(t, err)

	v := p.Values()
	v["temp"] = 99

	assert.Equal(t, 22.0, p.Values()["temp"])
}
