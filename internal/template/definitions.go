package template

import "github.com/elicitlabs/elicit/internal/domain"

var registry = map[string]definition{
	Postmortem: {
		slots: []domain.Slot{
			{Name: "summary", Description: "Incident summary including when, where, what failed, and who was impacted", Type: "postmortem_summary", Importance: 1.0},
			{Name: "impact", Description: "Quantified and qualitative impact on users, revenue, or systems", Type: "postmortem_impact", Importance: 1.0},
			{Name: "detection_ttd", Description: "Detection method and time to detect (TTD)", Type: "postmortem_detection", Importance: 0.9},
			{Name: "timeline", Description: "Chronological sequence of key events during the incident", Type: "postmortem_timeline", Importance: 0.98},
			{Name: "capa", Description: "Corrective and preventive actions including owner, due date, and success criteria", Type: "postmortem_capa", Importance: 0.95},
		},
		fallbacks: map[string]fallbackText{
			"summary": {
				en: "Please give a one-sentence incident summary: when and where it happened, what failed, and who was affected?",
				ja: "障害の概要を一文で教えてください。いつどこで何が起こり、誰に影響しましたか？",
			},
			"impact": {
				en: "What was the impact? Share quantitative and qualitative signals such as affected users or failure rate.",
				ja: "障害の影響範囲を教えてください。利用者数や失敗率など、定量・定性の両面で教えてください。",
			},
			"detection_ttd": {
				en: "How was the incident detected and what was the time to detect (TTD)?",
				ja: "どのように検知し、検知までどのくらい時間がかかりましたか？",
			},
			"timeline": {
				en: "Please outline the key timeline: list 3 events with time, action, and outcome.",
				ja: "主な出来事を時系列で整理しましょう。時刻・アクション・結果を3つほど挙げてください。",
			},
			"capa": {
				en: "Let us capture corrective/preventive actions with owner, due date, and success criteria.",
				ja: "再発防止・是正策を具体化しましょう。オーナー、期限、成功基準を含めて教えてください。",
			},
		},
		generic: fallbackText{
			en: "Could you share more details about this incident?",
			ja: "この障害について、もう少し詳しく教えてください。",
		},
	},

	SOP: {
		slots: []domain.Slot{
			{Name: "objective", Description: "Overall objective of the SOP / runbook and the desired end state once completed", Type: "sop_objective", Importance: 1.0},
			{Name: "prerequisites", Description: "Prerequisites and dependencies such as permissions, environments, materials, credentials", Type: "sop_prerequisites", Importance: 0.95},
			{Name: "environment", Description: "Target environment and scope (prod/stg, blast radius, rollback feasibility)", Type: "sop_environment", Importance: 0.9},
			{Name: "steps", Description: "High-level sequence of steps, later to be detailed with commands and expected results", Type: "sop_steps", Importance: 0.98},
			{Name: "branches", Description: "Branches or exception paths with decision criteria for each path", Type: "sop_branches", Importance: 0.9},
			{Name: "validation", Description: "Validation methods and expected results for key steps, including observables and pass criteria", Type: "sop_validation", Importance: 0.96},
			{Name: "rollback", Description: "Rollback / recovery steps, including conditions and time needed to safely revert", Type: "sop_rollback", Importance: 0.97},
			{Name: "hazards", Description: "Hazards and cautions (e.g., data loss, outage risk) and mitigation strategies", Type: "sop_hazards", Importance: 0.9},
			{Name: "checklist", Description: "Final checklist items (prereqs, core steps, validation, cleanup)", Type: "sop_checklist", Importance: 0.85},
		},
		fallbacks: map[string]fallbackText{
			"objective": {
				en: "What is the objective of this procedure? In one sentence, what state should be achieved when it is done?",
				ja: "この手順の目的は何ですか？完了後に達しているべき状態を一文で教えてください。",
			},
			"prerequisites": {
				en: "What prerequisites and dependencies (permissions, environments, materials, credentials) are required? Is anything currently missing?",
				ja: "この手順を実行する前提条件や依存関係（権限/環境/資材/認証情報など）は何がありますか？足りないものはありますか？",
			},
			"environment": {
				en: "Please clarify the target environment and scope (prod/staging, blast radius, rollback feasibility).",
				ja: "対象となる環境や範囲（本番/検証、影響範囲、ロールバック可否など）を具体的に教えてください。",
			},
			"steps": {
				en: "List the high-level sequence of steps as a numbered list (we will detail them later).",
				ja: "大まかな手順の流れを番号付きで列挙してください（後で詳細化します）。",
			},
			"branches": {
				en: "Are there any branches or exception paths? For each, what conditions decide which path to take?",
				ja: "分岐条件や例外パスはありますか？それぞれどのような条件でどちらのパスを選びますか？",
			},
			"validation": {
				en: "For each key step, what are the validation methods and expected results? What observables and pass criteria do you use?",
				ja: "各重要ステップの検証方法や期待結果を教えてください。どのような観測ポイントと合格基準がありますか？",
			},
			"rollback": {
				en: "What are the rollback or recovery steps if something goes wrong, including conditions and time needed to safely revert?",
				ja: "失敗時のロールバックやリカバリー手順はありますか？安全に戻す条件や想定所要時間も含めて教えてください。",
			},
			"hazards": {
				en: "What hazards or cautions (e.g., data loss or outage risk) exist in this procedure, and how do you avoid or mitigate them?",
				ja: "この手順における危険事項や注意点（データ消失/停止リスクなど）はありますか？それぞれの回避策・緩和策を教えてください。",
			},
			"checklist": {
				en: "Please list the items that should go into the final checklist (prereqs, core steps, validation, cleanup).",
				ja: "最終チェックリストに入れるべき項目（前提/主要手順/検証/後片付け）を列挙してください。",
			},
		},
		generic: fallbackText{
			en: "Could you share more details about this procedure?",
			ja: "この手順について、もう少し詳しく教えてください。",
		},
	},

	Recipe: {
		slots: []domain.Slot{
			{Name: "basic", Description: "Basic information about the dish: name and number of servings", Type: "recipe_basic", Importance: 1.0},
			{Name: "ingredients", Description: "List of ingredients with quantities and units (g/ml/piece/tsp, etc.)", Type: "recipe_ingredients", Importance: 0.98},
			{Name: "tools", Description: "Required tools and equipment (e.g., pot, oven, thermometer)", Type: "recipe_tools", Importance: 0.9},
			{Name: "prep", Description: "Preparation steps before cooking (chopping, marinating, tempering, etc.)", Type: "recipe_prep", Importance: 0.9},
			{Name: "steps", Description: "Detailed numbered steps with temperature, time, and heat level", Type: "recipe_steps", Importance: 0.99},
			{Name: "substitutions", Description: "Possible ingredient substitutions and dietary constraints (vegetarian/low-carb/gluten-free)", Type: "recipe_substitutions", Importance: 0.85},
			{Name: "pitfalls", Description: "Common pitfalls, how to avoid them, and visual cues to judge progress", Type: "recipe_pitfalls", Importance: 0.9},
			{Name: "storage", Description: "Storage guidance and reheating tips (how long, how to reheat safely)", Type: "recipe_storage", Importance: 0.85},
		},
		fallbacks: map[string]fallbackText{
			"basic": {
				en: "What is the name of the dish, and how many servings is it for?",
				ja: "料理名と、何人前を想定しているかを教えてください。",
			},
			"ingredients": {
				en: "Please list all ingredients with quantities and units (g/ml/piece/tsp, etc.).",
				ja: "材料と分量を、単位付き（g/ml/個/小さじなど）で列挙してください。",
			},
			"tools": {
				en: "List the tools and equipment required (e.g., pot, pan, oven, thermometer).",
				ja: "必要な器具・道具（例：鍋、フライパン、オーブン、温度計など）を列挙してください。",
			},
			"prep": {
				en: "Describe any prep steps before cooking (chopping, marinating, bringing to room temperature, etc.).",
				ja: "調理前の下ごしらえがあれば、切る・漬ける・常温に戻すなど、具体的に教えてください。",
			},
			"steps": {
				en: "Detail the cooking steps as a numbered list, including heat level, temperature, and time for each step as much as possible.",
				ja: "調理の工程を番号付きで詳しく書いてください。各工程の火加減・温度・時間もできるだけ明記してください。",
			},
			"substitutions": {
				en: "If there are ingredient substitutions or ways to adapt the recipe for dietary constraints (vegetarian/low-carb/gluten-free), please describe them.",
				ja: "代替できる材料や、アレルギー・制約（菜食/低糖/グルテンなど）への対応があれば教えてください。",
			},
			"pitfalls": {
				en: "What are common pitfalls in this recipe, how can you avoid them, and what visual cues help judge if things are going well or not?",
				ja: "このレシピで失敗しやすいポイントと、その回避策、目で見て判断できるサインを教えてください。",
			},
			"storage": {
				en: "How should the dish be stored, for how long, and do you have any tips for reheating it?",
				ja: "作った料理の保存方法と保存可能期間、再加熱のコツがあれば教えてください。",
			},
		},
		generic: fallbackText{
			en: "Could you share more details about this recipe?",
			ja: "このレシピについて、もう少し詳しく教えてください。",
		},
	},

	DailyWork: {
		slots: []domain.Slot{
			{Name: "subject", Description: "High-level subject of today's work (project, product, or initiative)", Type: "daily_subject", Importance: 0.9},
			{Name: "projects", Description: "Projects you worked on today", Type: "daily_projects", Importance: 0.9},
			{Name: "tasks", Description: "Concrete tasks you executed today, ideally with time spent and links", Type: "daily_tasks", Importance: 0.98},
			{Name: "artifacts", Description: "Artifacts produced today (PRs, documents, deployments, etc.)", Type: "daily_artifacts", Importance: 0.9},
			{Name: "blockers", Description: "Blockers or issues you encountered, their causes and how you addressed them", Type: "daily_blockers", Importance: 0.9},
			{Name: "next_step", Description: "Next concrete step you plan to take (e.g., tomorrow's first task)", Type: "daily_next_step", Importance: 0.95},
		},
		fallbacks: map[string]fallbackText{
			"subject": {
				en: "In one phrase, what was the main subject of your work today (product, project, or initiative)?",
				ja: "今日の業務の主な対象（プロダクトやプロジェクトなど）を、一言で教えてください。",
			},
			"projects": {
				en: "Which projects did you work on today? (e.g., Feature A, Improvement B, Investigation C)",
				ja: "今日はどのプロジェクトに取り組みましたか？（例：機能A、改善B、調査C など）",
			},
			"tasks": {
				en: "Which concrete tasks did you complete today? If possible, include time spent and related links (PRs, tickets, etc.).",
				ja: "具体的にどのタスクを実施しましたか？できれば所要時間や関連リンク（PR/チケットなど）も含めて教えてください。",
			},
			"artifacts": {
				en: "What tangible artifacts did you produce today (PRs, documents, deployments, etc.), if any?",
				ja: "今日生まれた成果物（PR、ドキュメント、デプロイなど）があれば教えてください。",
			},
			"blockers": {
				en: "Did you encounter any blockers today? Please describe the causes and how you addressed or plan to address them.",
				ja: "今日、詰まりやブロッカーはありましたか？原因と、どのように対処した/する予定かを教えてください。",
			},
			"next_step": {
				en: "As your next step, what is one concrete task you plan to do tomorrow or next time?",
				ja: "次の一歩として、明日あるいは次回にやるべき具体的な一つのタスクを挙げてください。",
			},
		},
		generic: fallbackText{
			en: "Could you share more details about today's work?",
			ja: "今日の業務について、もう少し詳しく教えてください。",
		},
	},
}
