package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ExampleModel is a small two-level package used across the test suites.
// Indentation is two spaces per level.
const ExampleModel = `within ;
package Example "Example thermal network"
  package G
    model R4C3 "Four resistances, three capacities"
      parameter Modelica.SIunits.Area A_z = 50 "Zone area";
      parameter Real k(unit="W/K") = 2.5;
      Modelica.Blocks.Interfaces.RealInput u_rad1;
      HeatCapacitor HeaCap(C=1000);
    equation
      connect(HeaCap.u, conHea_zone);
      connect(u_rad1, HeaCap.port);
    end R4C3;

    model R2C2
      parameter Real A_z = 10;
    equation
    end R2C2;
  end G;

  model Standalone
  equation
  end Standalone;
end Example;
`

// WriteDocument writes text into dir/name and returns the file path.
// It fails the test immediately on error.
func WriteDocument(t *testing.T, dir, name, text string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "Failed to create document directory")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644), "Failed to write document")
	return path
}

// ReadDocument returns the content of path.
func ReadDocument(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err, "Failed to read document")
	return string(data)
}
