package briefing

import (
	"context"
	"testing"
	"time"

	"github.com/BearBump/VesselBrief/internal/cache/rediscache"
	"github.com/BearBump/VesselBrief/internal/models"
	"github.com/BearBump/VesselBrief/internal/services/briefing/mocks"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPortWeather_OmitsPortsWithoutWeather(t *testing.T) {
	w := &mocks.MockWeatherSource{}
	w.On("FetchWeather", mock.Anything, "Callao,peru").Return(&models.WeatherSnapshot{ConditionText: "Mist", WindKph: 9}).Once()
	w.On("FetchWeather", mock.Anything, "Paita,peru").Return(nil).Once()
	w.On("FetchWeather", mock.Anything, "Matarani,peru").Return(&models.WeatherSnapshot{ConditionText: "Sunny", WindKph: 20.5}).Once()

	svc := NewPortWeatherService(w, nil, nil, 0)
	out, err := svc.ForCountry(context.Background(), "Peru")
	require.NoError(t, err)
	require.Equal(t, []models.PortWeather{
		{Port: "Callao", Condition: "Mist", WindKph: 9},
		{Port: "Matarani", Condition: "Sunny", WindKph: 20.5},
	}, out)
	w.AssertExpectations(t)
}

func TestPortWeather_UnknownCountry(t *testing.T) {
	w := &mocks.MockWeatherSource{}
	_, err := NewPortWeatherService(w, nil, nil, 0).ForCountry(context.Background(), "narnia")
	require.ErrorIs(t, err, ErrCountryNotFound)
	w.AssertNotCalled(t, "FetchWeather", mock.Anything, mock.Anything)
}

func TestPortWeather_CachedPerCountry(t *testing.T) {
	mr := miniredis.RunT(t)
	c := rediscache.New(mr.Addr())

	w := &mocks.MockWeatherSource{}
	w.On("FetchWeather", mock.Anything, "Santos,brasil").Return(&models.WeatherSnapshot{ConditionText: "Rain", WindKph: 12}).Once()
	w.On("FetchWeather", mock.Anything, "Rio de Janeiro,brasil").Return(&models.WeatherSnapshot{ConditionText: "Sunny", WindKph: 8}).Once()

	svc := NewPortWeatherService(w, nil, c, 10*time.Minute)

	first, err := svc.ForCountry(context.Background(), "brasil")
	require.NoError(t, err)
	second, err := svc.ForCountry(context.Background(), "brasil")
	require.NoError(t, err)

	require.Equal(t, first, second)
	w.AssertExpectations(t)
	require.True(t, mr.Exists("ports:brasil:weather"))
}

func TestPortWeather_CacheDownStillServes(t *testing.T) {
	mr := miniredis.RunT(t)
	c := rediscache.New(mr.Addr())
	mr.Close()

	w := &mocks.MockWeatherSource{}
	w.On("FetchWeather", mock.Anything, mock.Anything).Return(&models.WeatherSnapshot{ConditionText: "Fog", WindKph: 3})

	out, err := NewPortWeatherService(w, nil, c, time.Minute).ForCountry(context.Background(), "chile")
	require.NoError(t, err)
	require.Len(t, out, 2)
}
