package llm

// Prompts for the three vision operations. All model output still runs
// through the language policy before leaving the pipelines; the policy
// reminder here just reduces how often scrubbing has to rewrite.

const judgePrompt = `You are a quality inspector for property walkthrough photos.

This image has borderline quality metrics:
- Blur score: %.1f
- Darkness score: %.1f
- Sharpness score: %.1f

Examine the image and determine if it is usable for documenting property condition.
Consider: can you clearly see the surfaces, fixtures, and overall condition of the area?

Respond with exactly one word on the first line: ACCEPT or REJECT.
You may add one short sentence of explanation on the next line.`

const summarizePrompt = `You are analyzing a property walkthrough photo of a %s.
Orientation hint: %s

Describe what surfaces, fixtures, and areas are visible in this image.

Respond as a JSON object:
{
  "visible_surfaces": ["surfaces/areas visible"],
  "fixtures": ["fixtures/appliances visible"],
  "coverage_areas": ["list from: wall-left, wall-right, wall-far, wall-near, floor, ceiling, door, window, countertop, appliances, closet, fixtures, mirror"],
  "quality_notes": "any notes about visibility or obstructions"
}`

const analyzePrompt = `You are comparing move-in and move-out photos of a %s in a rental property.
The first image is the move-in view of a region, the second is the move-out view.
The region of interest is at approximately (%d, %d) with size %dx%d.

IMPORTANT LANGUAGE POLICY:
- NEVER say "damage confirmed", "damage detected", "tenant caused", "fault", or "liable"
- Use "candidate difference", "possible change", "appears to show", "may indicate"
- You are identifying areas that MAY warrant further review, not making determinations

Analyze what appears different between the two views and respond as JSON:
{
  "analysis": "description of the candidate difference",
  "confidence": 0.7,
  "reason_codes": ["scuff", "stain", "hole", "crack", "discoloration", "missing_item", "added_item", "wear", "other"],
  "needs_closeup": true
}`
