package discovery

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const dateLayout = "02/01/2006 15:04:05"

// Resolver resolves host names. *net.Resolver satisfies it.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Discovery composes the label shown on a virtual machine cluster:
//
//	vm | addresses | Generated date : dd/mm/yyyy HH:MM:SS
type Discovery struct {
	resolver    Resolver
	client      *http.Client
	publicIPURL string
	now         func() time.Time
}

// New returns a Discovery using the system resolver. publicIPURL, when set,
// is queried for the public address of the local host.
func New(publicIPURL string) *Discovery {
	return &Discovery{
		resolver:    net.DefaultResolver,
		client:      &http.Client{Timeout: 10 * time.Second},
		publicIPURL: publicIPURL,
		now:         time.Now,
	}
}

// Label builds the label of a host. Local hosts are addressed through the
// public IP service, remote ones through DNS. A remote host without an
// address gets no addresses.
func (d *Discovery) Label(ctx context.Context, vm, hostURL string, local bool) (string, error) {
	var addrs []string
	switch {
	case local && d.publicIPURL != "":
		ip, err := d.publicIP(ctx)
		if err != nil {
			return "", err
		}
		addrs = []string{ip}
	case !local && hostURL != "":
		host := hostName(hostURL)
		resolved, err := d.resolver.LookupHost(ctx, host)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", host, err)
		}
		addrs = resolved
	}

	parts := []string{vm}
	if len(addrs) > 0 {
		parts = append(parts, strings.Join(addrs, ", "))
	}
	parts = append(parts, "Generated date : "+d.now().Format(dateLayout))
	return strings.Join(parts, " | "), nil
}

func (d *Discovery) publicIP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.publicIPURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get public address: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to get public address: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", fmt.Errorf("failed to read public address: %w", err)
	}
	return strings.TrimSpace(string(body)), nil
}

// hostName extracts the host of a daemon address such as tcp://host:2376.
func hostName(hostURL string) string {
	if u, err := url.Parse(hostURL); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	if host, _, err := net.SplitHostPort(hostURL); err == nil {
		return host
	}
	return hostURL
}
