// Package registry implementa el puerto de consulta de padrones de identidad:
// RENIEC para personas naturales (DNI) y el padrón RUC de SUNAT para personas
// jurídicas. Usa net/http de la stdlib, igual que el cliente del WS de la
// autoridad tributaria; las respuestas heterogéneas de cada padrón se
// normalizan aquí a los campos canónicos de la aplicación.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/remisiones-api/internal/application/guias"
	"github.com/jhoicas/remisiones-api/internal/domain"
	"github.com/jhoicas/remisiones-api/internal/domain/entity"
	"github.com/jhoicas/remisiones-api/internal/domain/identity"
	"github.com/jhoicas/remisiones-api/pkg/config"
)

var _ guias.RegistryLookup = (*Client)(nil)

// Client consulta los padrones externos vía HTTP/JSON (proveedor estilo apis.net.pe).
type Client struct {
	httpClient *http.Client
	reniecURL  string
	rucURL     string
	token      string
}

// New construye el cliente con la configuración de padrones.
func New(cfg config.RegistryConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		reniecURL:  strings.TrimRight(cfg.ReniecBaseURL, "/"),
		rucURL:     strings.TrimRight(cfg.RUCBaseURL, "/"),
		token:      cfg.Token,
	}
}

// reniecResponse forma de respuesta del padrón RENIEC (consulta por DNI).
type reniecResponse struct {
	Nombres         string `json:"nombres"`
	ApellidoPaterno string `json:"apellidoPaterno"`
	ApellidoMaterno string `json:"apellidoMaterno"`
	Direccion       string `json:"direccion"` // algunos proveedores la incluyen
}

// rucResponse forma de respuesta del padrón RUC de SUNAT.
type rucResponse struct {
	RazonSocial string `json:"razonSocial"`
	Direccion   string `json:"direccion"`
}

// Lookup despacha la consulta al padrón que corresponde al tipo de documento.
// Solo DNI y RUC son consultables; el resto corta con ErrKindNotSupported.
func (c *Client) Lookup(ctx context.Context, kind identity.Kind, number string) (*entity.RegistryFields, error) {
	switch kind {
	case identity.KindDNI:
		return c.lookupDNI(ctx, number)
	case identity.KindRUC:
		return c.lookupRUC(ctx, number)
	default:
		return nil, guias.ErrKindNotSupported
	}
}

// lookupDNI consulta RENIEC y concatena nombres y apellidos en un solo
// displayName (separador de un espacio, componentes vacíos descartados).
func (c *Client) lookupDNI(ctx context.Context, number string) (*entity.RegistryFields, error) {
	var out reniecResponse
	if err := c.get(ctx, c.reniecURL+"/dni?numero="+url.QueryEscape(number), &out); err != nil {
		return nil, err
	}
	name := joinNames(out.Nombres, out.ApellidoPaterno, out.ApellidoMaterno)
	if name == "" {
		return nil, fmt.Errorf("respuesta RENIEC sin nombres para DNI %s", number)
	}
	return &entity.RegistryFields{
		DisplayName: name,
		Address:     normalizeText(out.Direccion),
	}, nil
}

// lookupRUC consulta el padrón RUC: razón social y domicilio fiscal.
func (c *Client) lookupRUC(ctx context.Context, number string) (*entity.RegistryFields, error) {
	var out rucResponse
	if err := c.get(ctx, c.rucURL+"/ruc?numero="+url.QueryEscape(number), &out); err != nil {
		return nil, err
	}
	name := normalizeText(out.RazonSocial)
	if name == "" {
		return nil, fmt.Errorf("respuesta del padrón RUC sin razón social para %s", number)
	}
	return &entity.RegistryFields{
		DisplayName: name,
		Address:     normalizeText(out.Direccion),
	}, nil
}

// get ejecuta el GET con el Bearer token del proveedor y decodifica el JSON.
// 404 se traduce a domain.ErrNotFound (número no existe en el padrón).
func (c *Client) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("armar request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("consultar padrón: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("padrón respondió HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("respuesta de padrón malformada: %w", err)
	}
	return nil
}

// joinNames une componentes de nombre con un espacio, descartando vacíos.
func joinNames(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = normalizeText(p); p != "" {
			clean = append(clean, p)
		}
	}
	return strings.Join(clean, " ")
}

// normalizeText lleva el texto del padrón a forma NFC y colapsa espacios.
// Los padrones devuelven combinaciones inconsistentes de acentos precompuestos
// y descompuestos; sin NFC el mismo nombre deduplicaría como dos claves.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
