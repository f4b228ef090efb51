package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/remisiones-api/internal/application/guias"
	"github.com/jhoicas/remisiones-api/internal/domain"
	"github.com/jhoicas/remisiones-api/internal/domain/identity"
	"github.com/jhoicas/remisiones-api/pkg/config"
)

func newTestClient(srv *httptest.Server) *Client {
	return New(config.RegistryConfig{
		ReniecBaseURL: srv.URL,
		RUCBaseURL:    srv.URL,
		Token:         "token-de-prueba",
		TimeoutSec:    5,
	})
}

func TestLookupDNI_ConcatenaNombresYApellidos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dni", r.URL.Path)
		assert.Equal(t, "45678912", r.URL.Query().Get("numero"))
		assert.Equal(t, "Bearer token-de-prueba", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"nombres":"JUAN CARLOS","apellidoPaterno":"QUISPE","apellidoMaterno":"MAMANI","direccion":"Jr. Puno 810"}`))
	}))
	defer srv.Close()

	fields, err := newTestClient(srv).Lookup(context.Background(), identity.KindDNI, "45678912")
	require.NoError(t, err)
	assert.Equal(t, "JUAN CARLOS QUISPE MAMANI", fields.DisplayName)
	assert.Equal(t, "Jr. Puno 810", fields.Address)
}

func TestLookupDNI_ComponentesVaciosDescartados(t *testing.T) {
	// Algunos registros no tienen apellido materno: el nombre concatenado no
	// debe quedar con espacios dobles ni colas.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"nombres":"  MARIA ","apellidoPaterno":"","apellidoMaterno":"LOPEZ"}`))
	}))
	defer srv.Close()

	fields, err := newTestClient(srv).Lookup(context.Background(), identity.KindDNI, "12345678")
	require.NoError(t, err)
	assert.Equal(t, "MARIA LOPEZ", fields.DisplayName)
	assert.Empty(t, fields.Address)
}

func TestLookupDNI_NormalizaAcentosAFormaNFC(t *testing.T) {
	// "PEÑA" con la Ñ descompuesta (N + tilde combinante, U+0303): debe salir
	// en forma precompuesta para que la deduplicación por nombre sea estable.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"nombres":"JOSE","apellidoPaterno":"PEÑA","apellidoMaterno":""}`))
	}))
	defer srv.Close()

	fields, err := newTestClient(srv).Lookup(context.Background(), identity.KindDNI, "12345678")
	require.NoError(t, err)
	assert.Equal(t, "JOSE PEÑA", fields.DisplayName)
}

func TestLookupDNI_SinNombresEsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"direccion":"Jr. Puno 810"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Lookup(context.Background(), identity.KindDNI, "12345678")
	assert.Error(t, err)
}

func TestLookupRUC_RazonSocialYDomicilioFiscal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ruc", r.URL.Path)
		assert.Equal(t, "20123456789", r.URL.Query().Get("numero"))
		w.Write([]byte(`{"razonSocial":"COMERCIAL  ANDINA   S.A.C.","direccion":"Av. Argentina 2350, Callao"}`))
	}))
	defer srv.Close()

	fields, err := newTestClient(srv).Lookup(context.Background(), identity.KindRUC, "20123456789")
	require.NoError(t, err)
	assert.Equal(t, "COMERCIAL ANDINA S.A.C.", fields.DisplayName, "espacios internos colapsados")
	assert.Equal(t, "Av. Argentina 2350, Callao", fields.Address)
}

func TestLookup_NumeroNoExisteEnElPadron(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Lookup(context.Background(), identity.KindDNI, "00000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLookup_ErrorHTTPDelProveedor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Lookup(context.Background(), identity.KindRUC, "20123456789")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestLookup_TipoSinPadron(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no debe llegar ninguna request")
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Lookup(context.Background(), identity.KindPasaporte, "AB1234567890")
	assert.ErrorIs(t, err, guias.ErrKindNotSupported)
}
