package sources

import (
	"context"
	"strings"
)

// Endpoints de almacenamiento cloud con bucket en el hostname. El candidato
// resultante es un hostname normal: la validación decide si existe y el
// assessor si está expuesto.
var storageEndpoints = []string{
	"%s.s3.amazonaws.com",
	"%s.storage.googleapis.com",
	"%s.blob.core.windows.net",
}

var storageSuffixes = []string{
	"", "-backup", "-backups", "-assets", "-static", "-media", "-data",
	"-files", "-uploads", "-dev", "-staging", "-prod",
}

// Sufijos adicionales para el perfil comprehensive.
var storageSuffixesExtra = []string{
	"-archive", "-logs", "-public", "-private", "-internal", "-storage",
	"-bucket", "-cdn", "-images", "-docs", "-exports", "-dumps", "-db",
	"-test", "-tmp", "-web", "-www", "-api", "-old",
}

// CloudPattern genera candidatos de buckets de almacenamiento a partir del
// nombre de marca del target. Generación pura, sin I/O.
type CloudPattern struct{}

// NewCloudPattern crea la fuente de patrones de almacenamiento cloud.
func NewCloudPattern() *CloudPattern {
	return &CloudPattern{}
}

func (c *CloudPattern) Name() string    { return "cloud-pattern" }
func (c *CloudPattern) Kind() Kind      { return KindPattern }
func (c *CloudPattern) Available() bool { return true }

func (c *CloudPattern) Discover(ctx context.Context, target string, profile Profile) ([]string, error) {
	bases := bucketBases(target)
	if len(bases) == 0 {
		return nil, nil
	}

	suffixes := storageSuffixes
	if profile == ProfileComprehensive {
		suffixes = append(append([]string(nil), storageSuffixes...), storageSuffixesExtra...)
	}

	seen := make(map[string]struct{})
	var candidates []string
	for _, base := range bases {
		for _, suffix := range suffixes {
			if err := ctx.Err(); err != nil {
				return candidates, err
			}
			bucket := base + suffix
			for _, endpoint := range storageEndpoints {
				host := strings.Replace(endpoint, "%s", bucket, 1)
				if _, ok := seen[host]; ok {
					continue
				}
				seen[host] = struct{}{}
				candidates = append(candidates, host)
			}
		}
	}
	return candidates, nil
}

// bucketBases deriva las raíces de nombre de bucket de un target: para
// example.com genera "example" y "example-com"; para una marca sin punto, la
// marca tal cual.
func bucketBases(target string) []string {
	trimmed := strings.ToLower(strings.TrimSpace(target))
	if trimmed == "" {
		return nil
	}

	if !strings.Contains(trimmed, ".") {
		return []string{trimmed}
	}

	labels := strings.Split(trimmed, ".")
	first := labels[0]
	if first == "www" && len(labels) > 2 {
		first = labels[1]
	}

	bases := []string{first}
	joined := strings.ReplaceAll(trimmed, ".", "-")
	if joined != first {
		bases = append(bases, joined)
	}
	return bases
}
