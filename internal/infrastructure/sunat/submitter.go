// Package sunat implementa el puerto de presentación de la guía de remisión
// electrónica contra el endpoint REST de SUNAT (o del OSE intermediario).
package sunat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/remisiones-api/internal/application/guias"
	"github.com/jhoicas/remisiones-api/internal/domain/remision"
	"github.com/jhoicas/remisiones-api/pkg/config"
)

var _ guias.GuiaSubmitter = (*Submitter)(nil)

// Submitter presenta la guía armada vía HTTP/JSON. Un intento por invocación:
// el retry es decisión del usuario, nunca de este cliente.
type Submitter struct {
	httpClient *http.Client
	submitURL  string
}

// NewSubmitter construye el cliente con timeout generoso: el servicio de SUNAT
// puede tardar varios segundos en responder.
func NewSubmitter(cfg config.SUNATConfig) *Submitter {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Submitter{
		httpClient: &http.Client{Timeout: timeout},
		submitURL:  cfg.SubmitURL,
	}
}

// acceptResponse respuesta de aceptación del endpoint.
type acceptResponse struct {
	ID     string `json:"id"`
	Serie  string `json:"serie"`
	Numero string `json:"numero"`
}

// rejectResponse rechazo estructurado del endpoint.
type rejectResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Submit envía el payload. Un rechazo estructurado (4xx con cuerpo JSON) se
// devuelve como *guias.Rejection con el mensaje verbatim; cualquier otra falla
// es un error de transporte.
func (s *Submitter) Submit(ctx context.Context, p *remision.Payload) (*guias.SubmitResult, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("serializar guía: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.submitURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("armar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("presentar guía: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var accepted acceptResponse
		if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
			return nil, fmt.Errorf("respuesta de aceptación malformada: %w", err)
		}
		return &guias.SubmitResult{
			SUNATID: accepted.ID,
			Serie:   accepted.Serie,
			Numero:  accepted.Numero,
		}, nil

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		raw, _ := io.ReadAll(resp.Body)
		var rejected rejectResponse
		if err := json.Unmarshal(raw, &rejected); err != nil || rejected.Message == "" {
			// Sin cuerpo estructurado: el texto crudo igual se muestra verbatim.
			rejected = rejectResponse{
				Code:    fmt.Sprintf("HTTP_%d", resp.StatusCode),
				Message: string(raw),
			}
		}
		return nil, &guias.Rejection{Code: rejected.Code, Message: rejected.Message}

	default:
		return nil, fmt.Errorf("endpoint de presentación respondió HTTP %d", resp.StatusCode)
	}
}
