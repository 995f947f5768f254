package umbral_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestUmbralSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Umbral PRE Suite")
}
