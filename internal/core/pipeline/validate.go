package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"

	apperrors "asset-rec/internal/platform/errors"
	"asset-rec/internal/platform/logx"
)

// Clasificación de un asset tras la validación.
const (
	ClassUnresolvable = "unresolvable"
	ClassDNSOnly      = "dns-only"
	ClassHTTPActive   = "http-active"
	ClassUnknown      = "unknown"
)

// Outcome es el resultado de validar un asset. Se produce exactamente uno por
// asset y ejecución; los assets inactivos se conservan, no se descartan.
type Outcome struct {
	Asset          CanonicalAsset
	Reachable      bool
	Classification string
	Latency        time.Duration
	Addresses      []string
	HTTPStatus     int
	Err            string
}

// Resolvers públicos que rota el pool; evita castigar al resolver local con
// lotes de decenas de miles de consultas.
var defaultResolvers = []string{
	"8.8.8.8:53",
	"1.1.1.1:53",
	"9.9.9.9:53",
}

// Pool es el pool acotado de validación: un número fijo de workers sondea
// los assets normalizados. El límite es un mecanismo deliberado de
// backpressure frente a lotes comprehensive de >10k candidatos.
type Pool struct {
	workers int
	timeout time.Duration

	resolvers []string
	client    *dns.Client

	// Inyectables en tests.
	resolve   func(ctx context.Context, host string) ([]string, error)
	probeHTTP func(ctx context.Context, host string) (int, error)
}

// NewPool crea un pool con el número de workers y timeout por sonda dados.
func NewPool(workers int, timeout time.Duration) *Pool {
	if workers <= 0 {
		workers = 10
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	p := &Pool{
		workers:   workers,
		timeout:   timeout,
		resolvers: defaultResolvers,
		client:    &dns.Client{Timeout: timeout},
	}
	p.resolve = p.resolveDNS
	p.probeHTTP = p.headProbe
	return p
}

// Validate sondea cada asset de forma independiente a través del pool. El
// orden de los resultados no sigue el del input: los callers indexan por el
// valor canónico. La cancelación del contexto abandona el trabajo en cola y
// devuelve lo ya completado.
func (p *Pool) Validate(ctx context.Context, assets []CanonicalAsset, activeHTTP bool) []Outcome {
	if len(assets) == 0 {
		return nil
	}

	jobs := make(chan CanonicalAsset)
	results := make(chan Outcome, p.workers)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for asset := range jobs {
				outcome := p.probeOne(ctx, asset, activeHTTP)
				select {
				case results <- outcome:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
	feed:
		for _, asset := range assets {
			select {
			case jobs <- asset:
			case <-ctx.Done():
				break feed
			}
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	outcomes := make([]Outcome, 0, len(assets))
	for outcome := range results {
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// probeOne valida un único asset: resolución, y si procede, sonda HTTP para
// refinar la clasificación. Cualquier error se registra como dato
// (reachable=false), jamás aborta el lote.
func (p *Pool) probeOne(parent context.Context, asset CanonicalAsset, activeHTTP bool) Outcome {
	ctx, cancel := context.WithTimeout(parent, p.timeout)
	defer cancel()

	start := time.Now()
	outcome := Outcome{Asset: asset, Classification: ClassUnknown}

	addrs, err := p.resolve(ctx, asset.Value)
	outcome.Latency = time.Since(start)
	if err != nil {
		probeErr := apperrors.NewProbeError(asset.Value, "resolve", err)
		outcome.Classification = ClassUnresolvable
		outcome.Err = probeErr.Error()
		logx.Debug("Probe fallido", logx.Fields{"source": "probe", "asset": asset.Value, "error": err.Error()})
		return outcome
	}

	outcome.Reachable = true
	outcome.Classification = ClassDNSOnly
	outcome.Addresses = addrs

	if !activeHTTP {
		return outcome
	}

	httpCtx, httpCancel := context.WithTimeout(parent, p.timeout)
	defer httpCancel()

	status, err := p.probeHTTP(httpCtx, asset.Value)
	outcome.Latency = time.Since(start)
	if err != nil {
		// Resuelve pero no responde HTTP: sigue siendo un asset válido.
		logx.Trace("Sonda HTTP sin respuesta", logx.Fields{"source": "probe", "asset": asset.Value, "error": err.Error()})
		return outcome
	}

	outcome.Classification = ClassHTTPActive
	outcome.HTTPStatus = status
	return outcome
}

// resolveDNS consulta A (y AAAA como fallback) rotando resolvers públicos.
func (p *Pool) resolveDNS(ctx context.Context, host string) ([]string, error) {
	fqdn := dns.Fqdn(host)

	var lastErr error
	for i, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		resolver := p.resolvers[(len(host)+i)%len(p.resolvers)]

		msg := new(dns.Msg)
		msg.SetQuestion(fqdn, qtype)
		msg.RecursionDesired = true

		reply, _, err := p.client.ExchangeContext(ctx, msg, resolver)
		if err != nil {
			lastErr = err
			continue
		}
		if reply.Rcode != dns.RcodeSuccess {
			lastErr = fmt.Errorf("rcode %s", dns.RcodeToString[reply.Rcode])
			continue
		}

		var addrs []string
		for _, rr := range reply.Answer {
			switch record := rr.(type) {
			case *dns.A:
				addrs = append(addrs, record.A.String())
			case *dns.AAAA:
				addrs = append(addrs, record.AAAA.String())
			}
		}
		if len(addrs) > 0 {
			return addrs, nil
		}
		lastErr = fmt.Errorf("sin registros %s", dns.TypeToString[qtype])
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("sin respuesta de resolvers")
	}
	return nil, lastErr
}

// headProbe hace una petición HEAD ligera, https primero y http como
// fallback. Usa http.DefaultTransport, que ya respeta proxy y CAs
// configurados en el arranque.
func (p *Pool) headProbe(ctx context.Context, host string) (int, error) {
	client := &http.Client{Timeout: p.timeout}

	var lastErr error
	for _, scheme := range []string{"https", "http"} {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, scheme+"://"+host+"/", nil)
		if err != nil {
			lastErr = err
			continue
		}
		req.Header.Set("User-Agent", "asset-rec/1.0")

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		resp.Body.Close()
		return resp.StatusCode, nil
	}
	return 0, lastErr
}

// IsStorageHost reconoce endpoints de almacenamiento cloud con bucket en el
// hostname; el assessor los trata con reglas propias.
func IsStorageHost(host string) bool {
	host = strings.ToLower(host)
	return strings.HasSuffix(host, ".s3.amazonaws.com") ||
		strings.HasSuffix(host, ".storage.googleapis.com") ||
		strings.HasSuffix(host, ".blob.core.windows.net")
}
