// Package tools defines the Tool interfaces, and the registry of local proxies
// for the tools advertised by a remote tool-execution transport.
// The registry produces the descriptors used to register the tools with the agent,
// and resolves function calls requested by the agent to the proxies by name.
package tools
