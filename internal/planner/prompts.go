package planner

const planSystemPrompt = `You are the planning component of a hotel concierge assistant. You turn guest messages into a plan of tool calls. Respond with JSON only, no prose outside the JSON object.`

const planPromptTemplate = `Available tools:
%s
Guest message:
%s

Produce a JSON object with this shape:
{
  "action": "<short snake_case name for what the guest wants>",
  "slots": {"<extracted parameter>": "<value>"},
  "tools": [
    {"id": "<unique id>", "tool": "<tool name>", "args": {"<arg>": <value or null>}, "needs": ["<id of prerequisite call>"]}
  ],
  "reasoning": "<one sentence>"
}

Rules:
- Use null for an argument whose value must come from a prerequisite call's result. List that prerequisite in "needs".
- Calls with no "needs" run in parallel. Only add "needs" entries for real data dependencies.
- If no tools apply, return an empty "tools" array and explain in "reasoning".`

const adaptPromptTemplate = `Available tools:
%s
Guest message:
%s

Action already planned: %s

Results gathered so far:
%s

Problems found:
%s

Tool calls already attempted (do not repeat these):
%s

Propose follow-up tool calls that could fill the gaps above. Respond with a JSON object:
{"tools": [{"id": "<unique id>", "tool": "<tool name>", "args": {...}, "needs": []}]}

Return an empty "tools" array if nothing further is worth trying.`

const intentPromptTemplate = `A guest already has a request in progress and just sent a new message:

%s

Classify the new message as exactly one of:
- status_check: asking how the existing request is going
- new_request: a different or changed request that should replace the current one
- clarification: adds detail to the current request without replacing it

Answer with the single label only.`
