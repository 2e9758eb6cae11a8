/*
Package node implements the execution protocol of the graph's computation
units. A node owns ordered, named input and output slots holding cty
values, exposes the prepare/check/run/notify lifecycle driven by an
external loop, and addresses its slots through stable pins.

Three variants exist: the plain Base node, which runs an attached handler
once per round, and the two control-flow nodes Switch (conditional
branch with rejoin) and Loop (bounded iteration), which share the
multi-producer Control input and the Final output and carry explicit
phase state machines for their dispatch-then-rejoin protocols.

The connection index is consumed through the Graph interface; the
concrete container lives in the graph package.
*/
package node
