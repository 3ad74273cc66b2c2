package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
)

type SchemaTestSuite struct {
	suite.Suite
}

func TestSchemaSuite(t *testing.T) {
	suite.Run(t, new(SchemaTestSuite))
}

type sampleConfig struct {
	Period    int     `json:"period"`
	Threshold float64 `json:"threshold"`
}

func (suite *SchemaTestSuite) TestToJSONSchema() {
	out, err := ToJSONSchema(sampleConfig{})
	suite.NoError(err)
	suite.NotEmpty(out)

	var doc map[string]any
	suite.NoError(json.Unmarshal([]byte(out), &doc))

	props, ok := doc["properties"].(map[string]any)
	suite.True(ok)
	suite.Contains(props, "period")
	suite.Contains(props, "threshold")
}
