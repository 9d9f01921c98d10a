package facade

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// IDGenerator issues time-ordered identifiers with an entity-type prefix.
type IDGenerator struct {
	node *snowflake.Node
}

func NewIDGenerator(nodeID int64) (*IDGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("create id node: %w", err)
	}
	return &IDGenerator{node: node}, nil
}

// Next returns an id such as "prod_1790195438718926848".
func (g *IDGenerator) Next(prefix string) string {
	return prefix + "_" + g.node.Generate().String()
}
