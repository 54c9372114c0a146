package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"github.com/maxtour/maxtour/pkg/ctdf"
	"gopkg.in/yaml.v3"
)

//go:embed routes.yaml
var defaultRoutes []byte

// DefaultRoutes is the route configuration the operation starts with
func DefaultRoutes() ([]*ctdf.Route, error) {
	return LoadRoutes(bytes.NewReader(defaultRoutes))
}

// LoadRoutes reads a YAML stream with one route per document
func LoadRoutes(reader io.Reader) ([]*ctdf.Route, error) {
	decoder := yaml.NewDecoder(reader)
	validate := ctdf.NewValidator()

	var routes []*ctdf.Route
	for {
		var route ctdf.Route
		err := decoder.Decode(&route)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("decoding route %d: %w", len(routes)+1, err)
		}

		if err := validate.Struct(route); err != nil {
			return nil, fmt.Errorf("route %s is invalid: %w", route.ID, err)
		}
		if problems := route.Validate(); len(problems) > 0 {
			return nil, fmt.Errorf("route %s is invalid: %s", route.ID, problems[0])
		}

		routes = append(routes, &route)
	}

	return routes, nil
}
